// Command seedswarm runs a standalone libp2p DHT node that announces and
// looks up "seed X is rendered" claims for a distributed render farm.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/seedswarm"
)

var (
	listenAddr = flag.String("listen", "/ip4/0.0.0.0/tcp/4001", "libp2p multiaddr to listen on")
	bootstrap  = flag.String("bootstrap", "", "comma-separated bootstrap peer multiaddrs")
	mode       = flag.String("mode", "server", "DHT mode: server or client")
	logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}
	logrus.SetLevel(level)

	var peers []string
	if *bootstrap != "" {
		peers = strings.Split(*bootstrap, ",")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n, err := seedswarm.NewNode(ctx, seedswarm.Config{
		ListenAddrs:    []string{*listenAddr},
		BootstrapPeers: peers,
		Mode:           *mode,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to start seedswarm node")
	}
	defer n.Close()

	logrus.WithFields(logrus.Fields{
		"peer_id": n.PeerID().String(),
		"listen":  *listenAddr,
	}).Info("seedswarm node running; enter \"announce <seed-hex> <digest> <frames>\" or \"lookup <seed-hex>\"")

	go readCommands(ctx, n)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logrus.Info("shutting down")
}

func readCommands(ctx context.Context, n *seedswarm.Node) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "announce":
			if len(fields) < 2 {
				fmt.Println("usage: announce <seed-hex> [digest] [frames]")
				continue
			}
			rec := seedswarm.RenderRecord{Seed: fields[1], WorkerID: n.PeerID().String()}
			if len(fields) >= 3 {
				rec.Digest = fields[2]
			}
			if err := n.AnnounceRendered(ctx, rec); err != nil {
				logrus.WithError(err).Error("announce failed")
				continue
			}
			fmt.Println("announced", fields[1])
		case "lookup":
			if len(fields) < 2 {
				fmt.Println("usage: lookup <seed-hex>")
				continue
			}
			rec, err := n.LookupRendered(ctx, fields[1])
			if err != nil {
				fmt.Println("not found:", err)
				continue
			}
			fmt.Printf("%+v\n", rec)
		case "peers":
			fmt.Println("connected peers:", n.PeerCount())
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}
