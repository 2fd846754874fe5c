package sampler

import (
	"github.com/tauraamui/signclips/pkg/configdef"
	"github.com/tauraamui/xerror"
)

var ErrInvalidConfig = xerror.New("invalid sampling config")

// Config controls how many frames a clip holds and the stride,
// in decode order, between each retained frame.
type Config struct {
	NumFrames int
	FrameStep int
}

func DefaultConfig() Config {
	return Config{NumFrames: 13, FrameStep: 4}
}

// FromValues builds a config from the loaded sampling settings.
func FromValues(s configdef.Sampling) Config {
	return Config{NumFrames: s.NumFrames, FrameStep: s.FrameStep}
}

func (c Config) Validate() error {
	if c.NumFrames <= 0 {
		return xerror.Errorf("%w: num frames must be greater than 0, got %d", ErrInvalidConfig, c.NumFrames)
	}
	if c.FrameStep <= 0 {
		return xerror.Errorf("%w: frame step must be greater than 0, got %d", ErrInvalidConfig, c.FrameStep)
	}
	return nil
}
