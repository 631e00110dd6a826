// Package scanner drives the scanning screen: camera permission, the
// barcode/meal capture modes, the decode loop, and the teardown rules that
// keep at most one camera stream alive at any moment.
package scanner

import (
	"context"
	"errors"
)

// Mode selects what the camera session is for.
type Mode string

const (
	// ModeBarcode continuously decodes barcodes from the video stream.
	ModeBarcode Mode = "barcode"

	// ModeMeal captures a single photo for meal analysis.
	ModeMeal Mode = "meal"
)

// Camera acquisition errors, classified so the screen can tell the user
// something actionable instead of a raw device error.
var (
	// ErrPermissionDenied means the user refused camera access.
	ErrPermissionDenied = errors.New("camera permission denied")

	// ErrNoCamera means the device has no usable camera.
	ErrNoCamera = errors.New("no camera available")

	// ErrInsecureContext means camera access is blocked outside HTTPS.
	ErrInsecureContext = errors.New("camera requires a secure context")

	// ErrTorchUnsupported is returned by streams whose camera has no torch.
	ErrTorchUnsupported = errors.New("torch not supported")
)

// Track is a single live media track of a stream. Every started track must
// be stopped exactly once, on every exit path.
type Track interface {
	ID() string
	Stop()
}

// Stream is an open camera stream.
type Stream interface {
	// Tracks returns the live tracks backing the stream.
	Tracks() []Track

	// SetTorch toggles the camera light. Streams without a torch return
	// ErrTorchUnsupported.
	SetTorch(on bool) error

	// Capture grabs one still frame from the live stream. Meal mode uses it
	// to photograph the plate instead of decoding the video.
	Capture(ctx context.Context) ([]byte, error)
}

// Camera opens device streams. Open returns one of the classified errors
// above on failure.
type Camera interface {
	Open(ctx context.Context, mode Mode) (Stream, error)
}

// Decoder extracts payloads from a stream. Next blocks until a payload is
// decoded, the stream ends, or ctx is done.
type Decoder interface {
	Next(ctx context.Context, s Stream) (string, error)
}

// LookupFunc resolves a decoded payload, e.g. a barcode against the product
// database. The result is delivered to the screen's OnDetected callback.
type LookupFunc func(ctx context.Context, payload string) (any, error)

// AnalyzeFunc analyzes a captured meal photo, e.g. by uploading the frame
// for food recognition. The result is delivered to the screen's OnDetected
// callback.
type AnalyzeFunc func(ctx context.Context, frame []byte) (any, error)
