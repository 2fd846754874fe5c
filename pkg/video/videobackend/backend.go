package videobackend

import (
	"context"
	"strings"

	"github.com/tauraamui/signclips/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var ErrEndOfStream = xerror.New("unable to read from video connection")

type Connection interface {
	UUID() string
	Read(videoframe.Frame) error
	IsOpen() bool
	Close() error
}

type Backend interface {
	Connect(context.Context, string) (Connection, error)
	NewFrame() videoframe.Frame
}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return MockWithFrameCount(defaultMockFrameCount)
}

// MockWithFrameCount returns a backend whose connections yield
// exactly n synthetic frames before reporting end of stream.
func MockWithFrameCount(n int) Backend {
	return &mockVideoBackend{frameCount: n, w: defaultMockWidth, h: defaultMockHeight}
}

func Resolve(t string) Backend {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "mock":
		return Mock()
	default:
		return Default()
	}
}
