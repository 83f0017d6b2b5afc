// Package livepreview streams generated frames to a browser over a
// websocket while a long batch render runs, so an operator can watch
// progress without waiting for the full output file.
package livepreview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

const previewPage = `<!DOCTYPE html>
<html><head><title>notdeafbeef live preview</title></head>
<body style="margin:0;background:#111">
<img id="frame" style="width:100%;image-rendering:pixelated">
<script>
const img = document.getElementById('frame');
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.binaryType = 'blob';
ws.onmessage = (evt) => { img.src = URL.createObjectURL(evt.data); };
</script>
</body></html>`

// Server accepts websocket connections and broadcasts PNG-encoded frames to
// every connected client.
type Server struct {
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
	clients    map[*websocket.Conn]struct{}
	httpServer *http.Server
}

// NewServer creates a Server ready to accept connections on its Handler.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP implements http.Handler, routing "/ws" to the websocket feed and
// everything else to the preview page.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ws" {
		s.Handler(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(previewPage))
}

// ListenAndServe starts an HTTP server on addr serving the preview page at
// "/" and the websocket feed at "/ws". It blocks until the server stops.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s}
	logrus.WithField("addr", addr).Info("livepreview server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler upgrades incoming HTTP connections to websockets and registers
// them as broadcast recipients until they disconnect.
func (s *Server) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Error("livepreview: failed to upgrade websocket")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	logrus.Debug("livepreview: client connected")

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// Clients only receive; drain and discard any inbound message so a
	// browser's close/ping frames don't leak the connection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast PNG-encodes f and sends it to every connected client. Clients
// that error out (closed tab, dropped connection) are dropped silently;
// broadcasting never blocks waiting on a slow client beyond its write.
func (s *Server) Broadcast(f *visual.Frame) error {
	var buf bytes.Buffer
	if err := encodePNG(&buf, f); err != nil {
		return err
	}
	payload := buf.Bytes()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			logrus.WithError(err).Debug("livepreview: dropping unresponsive client")
			conn.Close()
		}
	}
	return nil
}

// ClientCount reports how many clients are currently connected.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func encodePNG(w *bytes.Buffer, f *visual.Frame) error {
	img := image.NewRGBA(image.Rect(0, 0, visual.Width, visual.Height))
	for y := 0; y < visual.Height; y++ {
		for x := 0; x < visual.Width; x++ {
			argb := f.At(x, y)
			a := byte(argb >> 24)
			r := byte(argb >> 16)
			g := byte(argb >> 8)
			b := byte(argb)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return png.Encode(w, img)
}
