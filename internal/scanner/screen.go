package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nutriscan/nutriscan/internal/logging"
)

// State is the scanning screen's lifecycle state.
type State string

const (
	StateRequestingPermission State = "requesting_permission"
	StatePermissionDenied     State = "permission_denied"
	StateIdle                 State = "idle"
	StateScanning             State = "scanning"
	StateError                State = "error"
)

// Result is one successful detection: the decoded payload plus whatever the
// lookup resolved it to.
type Result struct {
	ScanID  string
	Mode    Mode
	Payload string
	Value   any
}

// Capture errors.
var (
	// ErrNoMealSession is returned by CaptureMeal when no meal session is
	// live.
	ErrNoMealSession = errors.New("no live meal capture session")

	// ErrCaptureSuperseded is returned by CaptureMeal when the session
	// changed while the analysis was in flight.
	ErrCaptureSuperseded = errors.New("meal capture superseded")
)

// Screen owns the scanning session. All methods are safe for concurrent
// use. Invariants it maintains:
//
//   - at most one camera stream is live at any moment
//   - switching modes always tears the current stream down first
//   - every started track is stopped on every exit path, including errors
//   - a lookup or analysis still in flight when the session changes is
//     discarded
type Screen struct {
	cam     Camera
	dec     Decoder
	lookup  LookupFunc
	analyze AnalyzeFunc
	log     logging.Logger

	onDetected func(Result)
	onError    func(error)

	mu      sync.Mutex
	state   State
	mode    Mode
	stream  Stream
	cancel  context.CancelFunc
	gen     uint64
	scanID  string
	lastErr error
}

// ScreenOption configures a Screen.
type ScreenOption func(*Screen)

// OnDetected registers the callback invoked for each resolved detection.
func OnDetected(fn func(Result)) ScreenOption {
	return func(s *Screen) { s.onDetected = fn }
}

// OnError registers the callback invoked when the decode loop or a lookup
// fails in a way that ends the session.
func OnError(fn func(error)) ScreenOption {
	return func(s *Screen) { s.onError = fn }
}

// WithScreenLogger sets the logger.
func WithScreenLogger(log logging.Logger) ScreenOption {
	return func(s *Screen) { s.log = log }
}

// WithAnalyzer sets the meal photo analyzer used by CaptureMeal.
func WithAnalyzer(fn AnalyzeFunc) ScreenOption {
	return func(s *Screen) { s.analyze = fn }
}

// NewScreen builds a screen over the given camera, decoder and lookup.
func NewScreen(cam Camera, dec Decoder, lookup LookupFunc, opts ...ScreenOption) *Screen {
	s := &Screen{
		cam:    cam,
		dec:    dec,
		lookup: lookup,
		log:    logging.Nop(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the active capture mode.
func (s *Screen) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Err returns the error that put the screen into StateError, if any.
func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// RequestPermission probes camera access by opening a stream and
// immediately releasing it. The probe stream is never used for capture;
// holding the camera while the user reads an explanation screen would keep
// its light on.
func (s *Screen) RequestPermission(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateRequestingPermission
	s.mu.Unlock()

	stream, err := s.cam.Open(ctx, ModeBarcode)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if errors.Is(err, ErrPermissionDenied) {
			s.state = StatePermissionDenied
		} else {
			s.state = StateError
			s.lastErr = err
		}
		return fmt.Errorf("request camera permission: %w", err)
	}

	stopTracks(stream)

	s.mu.Lock()
	s.state = StateIdle
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Start opens a stream in the given mode. Barcode mode runs the decode
// loop; meal mode holds a live preview until CaptureMeal takes a frame. Any
// previous session is torn down first.
func (s *Screen) Start(ctx context.Context, mode Mode) error {
	s.teardown()

	stream, err := s.cam.Open(ctx, mode)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if errors.Is(err, ErrPermissionDenied) {
			s.state = StatePermissionDenied
		} else {
			s.state = StateError
			s.lastErr = err
		}
		return fmt.Errorf("start %s scan: %w", mode, err)
	}

	var (
		loopCtx context.Context
		cancel  context.CancelFunc
	)
	if mode == ModeBarcode {
		loopCtx, cancel = context.WithCancel(context.Background())
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.stream = stream
	s.cancel = cancel
	s.mode = mode
	s.state = StateScanning
	s.scanID = uuid.NewString()
	s.lastErr = nil
	scanID := s.scanID
	s.mu.Unlock()

	s.log.Info(ctx, "scan session started", "scan_id", scanID, "mode", string(mode))
	if mode == ModeBarcode {
		go s.runLoop(loopCtx, stream, gen, mode, scanID)
	}
	return nil
}

// SwitchMode tears the current session down and starts a fresh one in the
// other mode. Never reuses the old stream.
func (s *Screen) SwitchMode(ctx context.Context, mode Mode) error {
	return s.Start(ctx, mode)
}

// CaptureMeal grabs one still frame from the live meal stream and runs the
// meal analysis on it. The session must have been started in ModeMeal. The
// analysis is guarded the same way barcode lookups are: if the session
// changes while it is in flight, the result is discarded and
// ErrCaptureSuperseded returned. On success the result is delivered through
// OnDetected and returned; the session stays live for another capture.
func (s *Screen) CaptureMeal(ctx context.Context) (Result, error) {
	s.mu.Lock()
	stream := s.stream
	mode := s.mode
	gen := s.gen
	scanID := s.scanID
	s.mu.Unlock()

	if stream == nil || mode != ModeMeal {
		return Result{}, ErrNoMealSession
	}
	if s.analyze == nil {
		return Result{}, errors.New("no meal analyzer configured")
	}

	frame, err := stream.Capture(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("capture meal frame: %w", err)
	}
	s.log.Info(ctx, "meal frame captured", "scan_id", scanID, "bytes", len(frame))

	value, err := s.analyze(ctx, frame)
	if !s.isCurrent(gen) {
		s.log.Debug(ctx, "discarding superseded meal analysis", "scan_id", scanID)
		return Result{}, ErrCaptureSuperseded
	}
	if err != nil {
		return Result{}, fmt.Errorf("analyze meal photo: %w", err)
	}

	r := Result{ScanID: scanID, Mode: ModeMeal, Value: value}
	if s.onDetected != nil {
		s.onDetected(r)
	}
	return r, nil
}

// SetTorch toggles the camera light on the live stream. Best effort: an
// unsupported torch or a missing stream is not an error for the caller.
func (s *Screen) SetTorch(on bool) {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil {
		return
	}
	if err := stream.SetTorch(on); err != nil {
		s.log.Debug(context.Background(), "torch unavailable", "error", err)
	}
}

// Stop ends the current session and returns the screen to StateIdle.
func (s *Screen) Stop() {
	s.teardown()
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}

// Close releases everything. The screen must not be used afterwards.
func (s *Screen) Close() {
	s.teardown()
}

// teardown stops all tracks, cancels the decode loop and bumps the
// generation so any in-flight lookup result is discarded on arrival.
func (s *Screen) teardown() {
	s.mu.Lock()
	stream := s.stream
	cancel := s.cancel
	s.stream = nil
	s.cancel = nil
	s.gen++
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if stream != nil {
		stopTracks(stream)
	}
}

func stopTracks(stream Stream) {
	for _, tr := range stream.Tracks() {
		tr.Stop()
	}
}

// runLoop decodes payloads until the context is cancelled. An immediately
// repeated payload is dropped; the same code seen again after a different
// one in between is a fresh detection.
func (s *Screen) runLoop(ctx context.Context, stream Stream, gen uint64, mode Mode, scanID string) {
	var last string
	for {
		payload, err := s.dec.Next(ctx, stream)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.failSession(ctx, gen, err)
			return
		}
		if payload == last {
			continue
		}
		last = payload

		// without a lookup the raw payload is delivered as-is
		var value any
		if s.lookup != nil {
			value, err = s.lookup(ctx, payload)
		}
		if !s.isCurrent(gen) {
			s.log.Debug(ctx, "discarding superseded lookup", "scan_id", scanID, "payload", payload)
			continue
		}
		if err != nil {
			if s.onError != nil {
				s.onError(err)
			}
			continue
		}

		s.mu.Lock()
		s.state = StateScanning
		s.mu.Unlock()
		if s.onDetected != nil {
			s.onDetected(Result{ScanID: scanID, Mode: mode, Payload: payload, Value: value})
		}
	}
}

func (s *Screen) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// failSession ends a session on a decode error, releasing the stream like
// every other exit path does.
func (s *Screen) failSession(ctx context.Context, gen uint64, err error) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	stream := s.stream
	cancel := s.cancel
	s.stream = nil
	s.cancel = nil
	s.gen++
	s.state = StateError
	s.lastErr = err
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if stream != nil {
		stopTracks(stream)
	}
	s.log.Error(ctx, "scan session failed", "error", err)
	if s.onError != nil {
		s.onError(err)
	}
}
