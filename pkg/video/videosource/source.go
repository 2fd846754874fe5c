package videosource

import (
	"context"
	"sync"

	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
	"github.com/tauraamui/signclips/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// Source is a sequentially decodable video opened by path.
type Source interface {
	UUID() string
	Path() string
	// Read decodes the next frame. The caller owns the returned
	// frame and must close it.
	Read() (videoframe.Frame, error)
	IsOpen() bool
	Close() error
}

type source struct {
	path     string
	backend  videobackend.Backend
	mu       sync.Mutex
	isClosed bool
	vc       videobackend.Connection
}

func (s *source) UUID() string {
	return s.vc.UUID()
}

func (s *source) Path() string {
	return s.path
}

func (s *source) Read() (videoframe.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := s.backend.NewFrame()
	if err := s.vc.Read(frame); err != nil {
		frame.Close()
		return nil, err
	}
	return frame, nil
}

func (s *source) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.isClosed && s.vc.IsOpen()
}

// Close releases the underlying connection, repeated calls are no-ops.
func (s *source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return nil
	}
	s.isClosed = true
	log.Debug("Releasing video source [%s]", s.path)
	return s.vc.Close()
}

func Open(ctx context.Context, path string, backend videobackend.Backend) (Source, error) {
	vc, err := backend.Connect(ctx, path)
	if err != nil {
		return nil, xerror.Errorf("unable to open video source [%s]: %w", path, err)
	}
	return &source{
		path:    path,
		backend: backend,
		vc:      vc,
	}, nil
}
