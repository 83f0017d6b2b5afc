// Package visualmod hosts an opt-in sandboxed WASM plugin that can remap
// the glitch/terrain hue function per frame. Disabled by default: default
// generation never loads a module and remains bit-exact; enabling a plugin
// is a deliberate, explicit opt-out of that determinism guarantee.
package visualmod

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// Config constrains what a loaded hue-remap module may do.
type Config struct {
	// MemoryLimitBytes is the module memory budget (default 16MB — these
	// plugins compute a scalar per frame, not a full asset pipeline). Load
	// does not pass it to the wasmer engine, so it is not enforced.
	MemoryLimitBytes uint32
	// AllowedPaths restricts module loading to specific directories.
	AllowedPaths []string
}

// DefaultConfig returns secure default configuration.
func DefaultConfig() Config {
	return Config{
		MemoryLimitBytes: 16 * 1024 * 1024,
		AllowedPaths:     []string{"mods/"},
	}
}

// Loader manages hue-remap WASM module loading and execution.
type Loader struct {
	config  Config
	modules map[string]*Module
	mu      sync.RWMutex
}

// NewLoader creates a Loader with default configuration.
func NewLoader() *Loader {
	return &Loader{config: DefaultConfig(), modules: make(map[string]*Module)}
}

// NewLoaderWithConfig creates a Loader with custom configuration.
func NewLoaderWithConfig(cfg Config) *Loader {
	return &Loader{config: cfg, modules: make(map[string]*Module)}
}

// Module is a loaded hue-remap WASM module instance.
type Module struct {
	Name     string
	Path     string
	instance *wasmer.Instance
	store    *wasmer.Store
}

// Load loads a WASM module from path. The module must export a function
// `remap_hue(hue_fixed_point, frame, seed) -> hue_fixed_point`, where hues
// are passed as a fixed-point i32 (hue * 65536) to avoid floating-point
// ABI concerns across the WASM boundary.
func (l *Loader) Load(path string) (*Module, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("visualmod: invalid path: %w", err)
	}
	if !l.isPathAllowed(absPath) {
		return nil, fmt.Errorf("visualmod: access denied: path outside allowed directories")
	}

	modName := filepath.Base(path)
	if _, exists := l.modules[modName]; exists {
		return nil, fmt.Errorf("visualmod: module %s already loaded", modName)
	}

	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("visualmod: read WASM file: %w", err)
	}

	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)

	module, err := wasmer.NewModule(store, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("visualmod: compile WASM module: %w", err)
	}

	importObject := wasmer.NewImportObject()
	instance, err := wasmer.NewInstance(module, importObject)
	if err != nil {
		return nil, fmt.Errorf("visualmod: instantiate WASM module: %w", err)
	}

	mod := &Module{Name: modName, Path: path, instance: instance, store: store}
	l.modules[modName] = mod

	logrus.WithFields(logrus.Fields{"mod_name": modName, "path": path}).Info("visualmod hue plugin loaded")
	return mod, nil
}

// Unload removes a loaded module by name.
func (l *Loader) Unload(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.modules[name]; !exists {
		return fmt.Errorf("visualmod: module %s not loaded", name)
	}
	delete(l.modules, name)
	return nil
}

// Get retrieves a loaded module by name.
func (l *Loader) Get(name string) (*Module, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	mod, exists := l.modules[name]
	if !exists {
		return nil, fmt.Errorf("visualmod: module %s not found", name)
	}
	return mod, nil
}

func (l *Loader) isPathAllowed(path string) bool {
	for _, allowed := range l.config.AllowedPaths {
		absAllowed, err := filepath.Abs(allowed)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absAllowed, path)
		if err == nil && !filepath.IsAbs(rel) && len(rel) > 0 && rel[0] != '.' {
			return true
		}
	}
	return false
}

// RemapHue calls the module's remap_hue export. hue is a [0,1) value;
// the module operates on a fixed-point encoding (hue*65536) and the result
// is decoded back to [0,1) by modular reduction.
func (m *Module) RemapHue(hue float64, frame int, seed uint32) (float64, error) {
	fn, err := m.instance.Exports.GetFunction("remap_hue")
	if err != nil {
		return hue, fmt.Errorf("visualmod: remap_hue not exported: %w", err)
	}
	fixed := int32(hue * 65536)
	result, err := fn(fixed, int32(frame), int32(seed))
	if err != nil {
		return hue, fmt.Errorf("visualmod: remap_hue call failed: %w", err)
	}
	out, ok := result.(int32)
	if !ok {
		return hue, fmt.Errorf("visualmod: remap_hue returned unexpected type %T", result)
	}
	h := float64(out) / 65536.0
	h -= float64(int64(h))
	if h < 0 {
		h += 1
	}
	return h, nil
}

// HasExport checks if a module exports a given function.
func (m *Module) HasExport(name string) bool {
	_, err := m.instance.Exports.GetFunction(name)
	return err == nil
}
