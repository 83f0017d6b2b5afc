// Package seedswarm implements a minimal libp2p Kademlia DHT node that lets
// a distributed render farm announce "I have rendered seed X" so a large
// seed range can be split across workers without duplicate work. This is a
// coordination layer outside the deterministic core: it never affects what
// Generator/Renderer produce for a given seed, only who claims to have
// already produced it.
package seedswarm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ipfs/go-datastore"
	"github.com/libp2p/go-libp2p"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/routing"
	record "github.com/libp2p/go-libp2p-record"
	"github.com/multiformats/go-multiaddr"
	"github.com/sirupsen/logrus"
)

// RecordTTL bounds how long a render announcement is trusted before a
// worker should re-render rather than trust the claim.
const RecordTTL = 8 * time.Hour

// BootstrapTimeout is the max time to wait for bootstrap peer connections.
const BootstrapTimeout = 30 * time.Second

// Namespace is the DHT key namespace this package's records live under.
const Namespace = "seedswarm"

// RenderRecord is a "seed X is rendered" announcement.
type RenderRecord struct {
	Seed       string    `json:"seed"`
	WorkerID   string    `json:"workerId"`
	Digest     string    `json:"digest"`
	FrameCount int       `json:"frameCount"`
	Timestamp  time.Time `json:"timestamp"`
}

// Config configures Node creation.
type Config struct {
	ListenAddrs    []string
	BootstrapPeers []string
	Mode           string // "server" or "client"
}

// Node is one libp2p DHT participant announcing and querying render claims.
type Node struct {
	host      host.Host
	dht       *dht.IpfsDHT
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	bootstrap []string
}

// validator accepts any non-empty seedswarm record; content validation
// happens at the application level (a worker re-renders to confirm a claim
// before trusting it for anything beyond work avoidance).
type validator struct{}

func (validator) Validate(key string, value []byte) error {
	if len(value) == 0 {
		return errors.New("seedswarm: empty record value")
	}
	return nil
}

func (validator) Select(key string, values [][]byte) (int, error) {
	if len(values) == 0 {
		return 0, errors.New("seedswarm: no values to select from")
	}
	return 0, nil
}

// NewValidator builds the namespaced validator this package registers with
// the DHT, plus the standard IPFS public-key validators the DHT requires.
func NewValidator() record.NamespacedValidator {
	v := record.NamespacedValidator{Namespace: validator{}}
	v["pk"] = record.PublicKeyValidator{}
	return v
}

// NewNode creates a DHT node with the given configuration and bootstraps it.
func NewNode(ctx context.Context, cfg Config) (*Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	nodeCtx, cancel := context.WithCancel(ctx)

	var listenAddrs []multiaddr.Multiaddr
	for _, addr := range cfg.ListenAddrs {
		maddr, err := multiaddr.NewMultiaddr(addr)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("seedswarm: invalid listen address %s: %w", addr, err)
		}
		listenAddrs = append(listenAddrs, maddr)
	}

	h, err := libp2p.New(
		libp2p.ListenAddrs(listenAddrs...),
		libp2p.DefaultSecurity,
		libp2p.DefaultTransports,
		libp2p.NATPortMap(),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("seedswarm: create libp2p host: %w", err)
	}

	dhtMode := dht.ModeClient
	if cfg.Mode == "server" {
		dhtMode = dht.ModeServer
	}

	kdht, err := dht.New(nodeCtx, h,
		dht.Mode(dhtMode),
		dht.ProtocolPrefix("/notdeafbeef"),
		dht.NamespacedValidator(Namespace, validator{}),
	)
	if err != nil {
		h.Close()
		cancel()
		return nil, fmt.Errorf("seedswarm: create DHT: %w", err)
	}

	if err := kdht.Bootstrap(nodeCtx); err != nil {
		h.Close()
		cancel()
		return nil, fmt.Errorf("seedswarm: bootstrap DHT: %w", err)
	}

	n := &Node{host: h, dht: kdht, ctx: nodeCtx, cancel: cancel, bootstrap: cfg.BootstrapPeers}
	if len(cfg.BootstrapPeers) > 0 {
		go n.connectBootstrap()
	}

	logrus.WithFields(logrus.Fields{
		"peer_id":   h.ID().String(),
		"mode":      cfg.Mode,
		"bootstrap": len(cfg.BootstrapPeers),
	}).Info("seedswarm node started")

	return n, nil
}

func (n *Node) connectBootstrap() {
	ctx, cancel := context.WithTimeout(n.ctx, BootstrapTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, addrStr := range n.bootstrap {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			maddr, err := multiaddr.NewMultiaddr(addr)
			if err != nil {
				logrus.WithError(err).WithField("addr", addr).Warn("invalid bootstrap address")
				return
			}
			peerInfo, err := peer.AddrInfoFromP2pAddr(maddr)
			if err != nil {
				logrus.WithError(err).WithField("addr", addr).Warn("failed to parse peer info")
				return
			}
			if err := n.host.Connect(ctx, *peerInfo); err != nil {
				logrus.WithError(err).WithField("peer", peerInfo.ID).Debug("failed to connect to bootstrap peer")
				return
			}
			logrus.WithField("peer", peerInfo.ID).Info("connected to bootstrap peer")
		}(addrStr)
	}
	wg.Wait()
}

// Close shuts down the node.
func (n *Node) Close() error {
	n.cancel()
	if err := n.dht.Close(); err != nil {
		logrus.WithError(err).Warn("error closing DHT")
	}
	return n.host.Close()
}

// PeerID returns the node's peer ID.
func (n *Node) PeerID() peer.ID { return n.host.ID() }

// Routing returns the DHT routing interface.
func (n *Node) Routing() routing.Routing { return n.dht }

// PeerCount returns the number of connected peers.
func (n *Node) PeerCount() int { return len(n.host.Network().Peers()) }

// AnnounceRendered publishes a RenderRecord claiming seedHex has been
// rendered, replicated across the DHT.
func (n *Node) AnnounceRendered(ctx context.Context, rec RenderRecord) error {
	if ctx == nil {
		ctx = n.ctx
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("seedswarm: marshal record: %w", err)
	}
	key := makeKey(rec.Seed)
	if err := n.dht.PutValue(ctx, key, data); err != nil {
		return fmt.Errorf("seedswarm: put DHT value: %w", err)
	}
	logrus.WithFields(logrus.Fields{"seed": rec.Seed, "worker": rec.WorkerID}).Info("announced rendered seed")
	return nil
}

// LookupRendered checks whether seedHex has an unexpired render claim.
func (n *Node) LookupRendered(ctx context.Context, seedHex string) (*RenderRecord, error) {
	if ctx == nil {
		ctx = n.ctx
	}
	data, err := n.dht.GetValue(ctx, makeKey(seedHex))
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, fmt.Errorf("seedswarm: seed not found: %s", seedHex)
		}
		return nil, fmt.Errorf("seedswarm: get DHT value: %w", err)
	}
	var rec RenderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("seedswarm: unmarshal record: %w", err)
	}
	if time.Since(rec.Timestamp) > RecordTTL {
		return nil, fmt.Errorf("seedswarm: claim expired for seed %s", seedHex)
	}
	return &rec, nil
}

func makeKey(seedHex string) string {
	return fmt.Sprintf("/%s/seed/%s", Namespace, seedHex)
}
