// Package scanner manages camera-based barcode decoding sessions as a
// bounded state machine. The actual camera and frame capture live in the
// client runtime; the adapter owns camera selection, session lifecycle,
// per-frame decoding, and the classification of platform errors.
package scanner

import (
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mkravets/pantry-backend/internal/config"
	"github.com/mkravets/pantry-backend/internal/metrics"
)

// State is the lifecycle state of a scan session.
type State uint8

const (
	StateIdle State = iota
	StateInitializing
	StateActive
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// ErrNoCode is returned by a Decoder when a frame contains no readable code.
// It is a per-frame miss, not a session failure.
var ErrNoCode = errors.New("no code found in frame")

// Decoder extracts barcode text from a single frame.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// Formats is the symbol-format list every session requests.
var Formats = []string{
	"QR_CODE", "EAN_13", "UPC_A", "CODE_128", "CODE_39", "EAN_8", "UPC_E", "ITF",
}

// StartOptions describes the client runtime at session start.
type StartOptions struct {
	Cameras  []CameraInfo
	Platform Platform
	// Release is called when the session stops to let go of the camera
	// resource. A release failure is logged and never blocks the stop.
	Release func() error
}

// SessionConfig is handed back to the client runtime to start capture.
// Exactly one of CameraID or FacingMode is set, depending on the selection
// strategy chosen at session start.
type SessionConfig struct {
	SessionID  string   `json:"sessionId"`
	CameraID   string   `json:"cameraId,omitempty"`
	FacingMode string   `json:"facingMode,omitempty"`
	FrameRate  int      `json:"frameRate"`
	BoxSize    int      `json:"boxSize"`
	Formats    []string `json:"formats"`
}

// Adapter creates and serializes scan sessions. The camera is exclusively
// owned by at most one active session; starting while a session is active
// stops the existing one first.
type Adapter struct {
	decoder Decoder
	cfg     config.ScannerConfig
	log     *slog.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	active *Session
}

// New creates an Adapter using the given frame decoder.
func New(decoder Decoder, cfg config.ScannerConfig, logger *slog.Logger, m *metrics.Metrics) *Adapter {
	return &Adapter{
		decoder: decoder,
		cfg:     cfg,
		log:     logger.With("component", "scanner"),
		metrics: m,
	}
}

// Start selects a camera and opens a new session in the Initializing state.
// Any previously active session is stopped before the new one starts.
func (a *Adapter) Start(opts StartOptions) (*Session, SessionConfig, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active != nil {
		a.log.Info("stopping previous session before start",
			slog.String("session_id", a.active.id),
		)
		a.active.stop()
		a.active = nil
	}

	sel, err := selectCamera(opts.Cameras, opts.Platform)
	if err != nil {
		a.metrics.ScanInitFailures.WithLabelValues("no_camera").Inc()
		return nil, SessionConfig{}, err
	}

	s := &Session{
		id:      uuid.New().String(),
		state:   StateInitializing,
		decoder: a.decoder,
		release: opts.Release,
		log:     a.log,
		metrics: a.metrics,
		adapter: a,
	}
	a.active = s
	a.metrics.ScanSessions.Inc()

	cfg := SessionConfig{
		SessionID:  s.id,
		CameraID:   sel.cameraID,
		FacingMode: sel.facingMode,
		FrameRate:  a.cfg.FrameRate,
		BoxSize:    a.cfg.BoxSize,
		Formats:    Formats,
	}

	a.log.Info("scan session starting",
		slog.String("session_id", s.id),
		slog.String("camera_id", sel.cameraID),
		slog.String("facing_mode", sel.facingMode),
	)

	return s, cfg, nil
}

// Active returns the currently active session, or nil.
func (a *Adapter) Active() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// detach clears the adapter slot when a session stops. Called with the
// session's own lock held, so it must not touch session state.
func (a *Adapter) detach(s *Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == s {
		a.active = nil
	}
}

// Session is a single camera decoding session.
type Session struct {
	id      string
	decoder Decoder
	release func() error
	log     *slog.Logger
	metrics *metrics.Metrics
	adapter *Adapter

	mu    sync.Mutex
	state State
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleFrame decodes one captured frame. The first frame moves the session
// from Initializing to Active. A frame with no readable code is silent: it
// does not emit, does not surface an error, and keeps the session Active.
// A successful decode emits the text exactly once for that detection event.
func (s *Session) HandleFrame(img image.Image) (string, bool) {
	s.mu.Lock()
	switch s.state {
	case StateInitializing:
		s.state = StateActive
		s.log.Info("scan session active", slog.String("session_id", s.id))
	case StateActive:
	default:
		s.mu.Unlock()
		return "", false
	}
	s.mu.Unlock()

	text, err := s.decoder.Decode(img)
	if err != nil {
		// Transient per-frame miss: scanning continues.
		s.metrics.ScanFrameMisses.Inc()
		return "", false
	}

	s.metrics.ScanDecodes.Inc()
	s.log.Info("barcode decoded",
		slog.String("session_id", s.id),
		slog.String("text", text),
	)
	return text, true
}

// Fail records a hard initialization failure reported by the client runtime
// and returns the classified error whose message is fit for the user.
// The session moves to Error and releases its slot so the caller may retry.
func (s *Session) Fail(name, detail string) error {
	err := ClassifyCameraError(name, detail)

	s.mu.Lock()
	s.state = StateError
	s.mu.Unlock()

	s.metrics.ScanInitFailures.WithLabelValues(causeLabel(err)).Inc()
	s.log.Warn("scan session failed",
		slog.String("session_id", s.id),
		slog.String("cause", name),
		slog.String("detail", detail),
	)

	s.releaseCamera()
	s.adapter.detach(s)
	return err
}

// Stop cleanly ends the session and releases the camera. It is safe to call
// in any state and never fails: a release error is logged, the transition to
// Idle happens regardless, and the adapter can always re-initialize.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.mu.Unlock()

	s.log.Info("scan session stopped", slog.String("session_id", s.id))
	s.releaseCamera()
	s.adapter.detach(s)
}

// stop is Stop for callers already holding the adapter lock.
func (s *Session) stop() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.mu.Unlock()

	s.log.Info("scan session stopped", slog.String("session_id", s.id))
	s.releaseCamera()
	if s.adapter.active == s {
		s.adapter.active = nil
	}
}

func (s *Session) releaseCamera() {
	if s.release == nil {
		return
	}
	if err := s.release(); err != nil {
		s.log.Warn("camera release failed",
			slog.String("session_id", s.id),
			slog.String("error", err.Error()),
		)
	}
}
