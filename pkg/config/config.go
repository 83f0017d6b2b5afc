// Package config handles loading and hot-reloading engine configuration.
package config

import (
	"context"
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/songadaymann/notdeafbeef/pkg/prng"
)

// Magics holds the seven named PRNG stream magics, loaded and saved with the
// config and defaulting to the committed constants in pkg/prng. The renderer
// seeds its streams from the pkg/prng constants and does not read these.
type Magics struct {
	Terrain     uint32 `mapstructure:"Terrain"`
	Ship        uint32 `mapstructure:"Ship"`
	Boss        uint32 `mapstructure:"Boss"`
	Projectiles uint32 `mapstructure:"Projectiles"`
	Shapes      uint32 `mapstructure:"Shapes"`
	Particles   uint32 `mapstructure:"Particles"`
	Glitch      uint32 `mapstructure:"Glitch"`
}

// Config holds all engine configuration values.
type Config struct {
	MelodyOnlyDelay     bool    `mapstructure:"MelodyOnlyDelay"`
	ChaosMode           bool    `mapstructure:"ChaosMode"`
	GlitchMaxIntensity  float64 `mapstructure:"GlitchMaxIntensity"`
	PRNGMagics          Magics  `mapstructure:"PRNGMagics"`
	PipeFPSCap          int     `mapstructure:"PipeFPSCap"`
	CacheDBPath         string  `mapstructure:"CacheDBPath"`
	LivePreviewAddr     string  `mapstructure:"LivePreviewAddr"`
}

// C is the global configuration instance.
var C Config

// mu protects concurrent access to C during hot-reload.
var mu sync.RWMutex

// watcherMu protects the watcher state.
var (
	watcherMu       sync.Mutex
	watcherActive   bool
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	currentCallback ReloadCallback
)

// ReloadCallback is called when the configuration is hot-reloaded.
type ReloadCallback func(old, new Config)

// Load reads configuration from a TOML file and environment, populating C.
// A missing config file is not an error; defaults apply. A malformed file
// fills C from the defaults and still reports the error to the caller, who
// may choose to log it and proceed.
func Load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.notdeafbeef")

	viper.SetDefault("MelodyOnlyDelay", false)
	viper.SetDefault("ChaosMode", false)
	viper.SetDefault("GlitchMaxIntensity", 3.0)
	viper.SetDefault("PRNGMagics.Terrain", prng.MagicTerrain)
	viper.SetDefault("PRNGMagics.Ship", prng.MagicShip)
	viper.SetDefault("PRNGMagics.Boss", prng.MagicBoss)
	viper.SetDefault("PRNGMagics.Projectiles", prng.MagicProjectiles)
	viper.SetDefault("PRNGMagics.Shapes", prng.MagicShapes)
	viper.SetDefault("PRNGMagics.Particles", prng.MagicParticles)
	viper.SetDefault("PRNGMagics.Glitch", prng.MagicGlitch)
	viper.SetDefault("PipeFPSCap", 0)
	viper.SetDefault("CacheDBPath", "render-cache.db")
	viper.SetDefault("LivePreviewAddr", ":8787")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			_ = viper.Unmarshal(&C)
			return err
		}
	}

	return viper.Unmarshal(&C)
}

// Save writes the current configuration to file.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	viper.Set("MelodyOnlyDelay", C.MelodyOnlyDelay)
	viper.Set("ChaosMode", C.ChaosMode)
	viper.Set("GlitchMaxIntensity", C.GlitchMaxIntensity)
	viper.Set("PRNGMagics.Terrain", C.PRNGMagics.Terrain)
	viper.Set("PRNGMagics.Ship", C.PRNGMagics.Ship)
	viper.Set("PRNGMagics.Boss", C.PRNGMagics.Boss)
	viper.Set("PRNGMagics.Projectiles", C.PRNGMagics.Projectiles)
	viper.Set("PRNGMagics.Shapes", C.PRNGMagics.Shapes)
	viper.Set("PRNGMagics.Particles", C.PRNGMagics.Particles)
	viper.Set("PRNGMagics.Glitch", C.PRNGMagics.Glitch)
	viper.Set("PipeFPSCap", C.PipeFPSCap)
	viper.Set("CacheDBPath", C.CacheDBPath)
	viper.Set("LivePreviewAddr", C.LivePreviewAddr)

	return viper.WriteConfig()
}

// Watch starts watching the config file for changes and calls the callback
// on reload. No command in this module calls Watch; render-queue and
// generate_frames read the config once at startup. Returns a stop function
// to cancel watching. Only one watcher can be active at a
// time; calling Watch when a watcher is active replaces the callback but
// keeps the same underlying file watcher, to avoid viper race conditions.
func Watch(callback ReloadCallback) (stop func(), err error) {
	watcherMu.Lock()
	defer watcherMu.Unlock()

	if !watcherActive {
		ctx, cancel := context.WithCancel(context.Background())
		watcherCtx = ctx
		watcherCancel = cancel
		currentCallback = callback
		watcherActive = true

		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			watcherMu.Lock()
			cb := currentCallback
			ctx := watcherCtx
			watcherMu.Unlock()

			if ctx != nil {
				select {
				case <-ctx.Done():
					return
				default:
				}
			}

			mu.Lock()
			old := C
			var newCfg Config
			if err := viper.Unmarshal(&newCfg); err == nil {
				C = newCfg
				mu.Unlock()
				if cb != nil {
					cb(old, newCfg)
				}
			} else {
				mu.Unlock()
			}
		})
	} else {
		currentCallback = callback
	}

	return func() {
		watcherMu.Lock()
		defer watcherMu.Unlock()
		if watcherCancel != nil {
			watcherCancel()
			watcherCancel = nil
			watcherCtx = nil
		}
		watcherActive = false
		currentCallback = nil
	}, nil
}

// Get returns a copy of the current config safely.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return C
}

// Set updates the config safely.
func Set(cfg Config) {
	mu.Lock()
	C = cfg
	mu.Unlock()
}
