package rest

import (
	"bytes"
	"encoding/json"
	"image"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	// Frame payloads arrive as encoded JPEG or PNG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/mkravets/pantry-backend/internal/scanner"
)

// scanMessage is the JSON envelope for text frames in either direction.
// Binary frames carry encoded camera images and have no envelope.
type scanMessage struct {
	Type string `json:"type"`

	// hello (client -> server)
	Cameras  []scanner.CameraInfo `json:"cameras,omitempty"`
	Platform scanner.Platform     `json:"platform,omitempty"`

	// error (client -> server)
	Name   string `json:"name,omitempty"`
	Detail string `json:"detail,omitempty"`

	// config (server -> client)
	Config *scanner.SessionConfig `json:"config,omitempty"`

	// code / failed (server -> client)
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// ScanHandler drives barcode scan sessions over a WebSocket. The client
// runtime owns the physical camera; this end owns session lifecycle, camera
// selection and frame decoding.
type ScanHandler struct {
	adapter  *scanner.Adapter
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(adapter *scanner.Adapter, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		adapter: adapter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser origin checks belong to the CORS layer; the socket
			// carries no credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger.With("handler", "scan"),
	}
}

// Serve handles GET /api/scan. The first client message must be a hello
// carrying the enumerated cameras and platform flags; the server answers
// with the session config, then decodes binary frames until the client
// stops, reports a camera error, or disconnects.
func (h *ScanHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(msg scanMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug("websocket write failed", slog.String("error", err.Error()))
		}
	}

	sess, err := h.openSession(conn, send)
	if err != nil {
		return
	}
	defer sess.Stop()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				// Not a decodable frame; treat like a miss.
				continue
			}
			if text, ok := sess.HandleFrame(img); ok {
				send(scanMessage{Type: "code", Value: text})
			}

		case websocket.TextMessage:
			var msg scanMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				send(scanMessage{Type: "failed", Message: "malformed message"})
				return
			}
			switch msg.Type {
			case "error":
				failure := sess.Fail(msg.Name, msg.Detail)
				send(scanMessage{Type: "failed", Message: failure.Error()})
				return
			case "stop":
				sess.Stop()
				send(scanMessage{Type: "stopped"})
				return
			}
		}
	}
}

// openSession reads the hello and starts a scan session. The session's
// release hook tells the client to let go of the camera.
func (h *ScanHandler) openSession(conn *websocket.Conn, send func(scanMessage)) (*scanner.Session, error) {
	var hello scanMessage
	if err := conn.ReadJSON(&hello); err != nil {
		return nil, err
	}
	if hello.Type != "hello" {
		send(scanMessage{Type: "failed", Message: "expected hello"})
		return nil, websocket.ErrBadHandshake
	}

	sess, cfg, err := h.adapter.Start(scanner.StartOptions{
		Cameras:  hello.Cameras,
		Platform: hello.Platform,
		Release: func() error {
			send(scanMessage{Type: "release"})
			return nil
		},
	})
	if err != nil {
		send(scanMessage{Type: "failed", Message: err.Error()})
		return nil, err
	}

	send(scanMessage{Type: "config", Config: &cfg})
	return sess, nil
}
