package ocr

import (
	"context"
	"log/slog"
	"strings"
)

// Engine extracts text from a single page image.
type Engine interface {
	// Name identifies the engine in logs and page metadata.
	Name() string

	// Recognize extracts text and a confidence score in [0,1] from one
	// page image.
	Recognize(ctx context.Context, image []byte) (string, float32, error)
}

const (
	// DefaultConfidenceFloor is the score below which a result is handed
	// to the next engine in the chain.
	DefaultConfidenceFloor = 0.5
)

// FallbackEngine runs an ordered chain of engines. A page is promoted to
// the next engine when the current one errors, returns empty text, or
// scores under the confidence floor. The best result seen so far is kept,
// so a later engine can only improve on an earlier one.
type FallbackEngine struct {
	engines []Engine
	floor   float32
	logger  *slog.Logger
}

var _ Engine = (*FallbackEngine)(nil)

// FallbackOption configures a FallbackEngine.
type FallbackOption func(*FallbackEngine)

// WithConfidenceFloor sets the promotion threshold.
func WithConfidenceFloor(floor float32) FallbackOption {
	return func(f *FallbackEngine) {
		if floor > 0 {
			f.floor = floor
		}
	}
}

// WithFallbackLogger sets a custom logger.
// Default is slog.Default().
func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(f *FallbackEngine) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFallbackEngine chains engines in priority order.
func NewFallbackEngine(engines []Engine, opts ...FallbackOption) (*FallbackEngine, error) {
	if len(engines) == 0 {
		return nil, ErrNoEngines
	}

	f := &FallbackEngine{
		engines: engines,
		floor:   DefaultConfidenceFloor,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "ocr")
	return f, nil
}

// Name returns the chained engine names.
func (f *FallbackEngine) Name() string {
	names := make([]string, len(f.engines))
	for i, engine := range f.engines {
		names[i] = engine.Name()
	}
	return strings.Join(names, ">")
}

// Recognize tries each engine in order and returns the best acceptable
// result. If no engine clears the floor, the highest-confidence non-empty
// result wins; if every engine fails outright, the last error is returned.
func (f *FallbackEngine) Recognize(ctx context.Context, image []byte) (string, float32, error) {
	var (
		bestText  string
		bestScore float32 = -1
		lastErr   error
	)

	for _, engine := range f.engines {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		text, confidence, err := engine.Recognize(ctx, image)
		if err != nil {
			f.logger.Debug("engine failed, promoting to next", "engine", engine.Name(), "error", err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			f.logger.Debug("engine returned empty text, promoting to next", "engine", engine.Name())
			continue
		}

		if confidence >= f.floor {
			return text, confidence, nil
		}
		if confidence > bestScore {
			bestText, bestScore = text, confidence
		}
		f.logger.Debug("confidence under floor, promoting to next",
			"engine", engine.Name(), "confidence", confidence, "floor", f.floor)
	}

	if bestScore >= 0 {
		return bestText, bestScore, nil
	}
	if lastErr != nil {
		return "", 0, lastErr
	}
	return "", 0, ErrNoText
}
