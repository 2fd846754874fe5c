package sampler

import (
	"context"

	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
	"github.com/tauraamui/signclips/pkg/video/videoclip"
	"github.com/tauraamui/signclips/pkg/video/videosource"
	"github.com/tauraamui/xerror"
)

var ErrEmptySource = xerror.New("video source produced no usable frames")

// Sample decodes frames from src, retaining every FrameStep'th frame
// until the clip holds NumFrames frames. A source which runs out early
// has its clip padded with zero frames shaped like the last retained
// one. The source is always closed before Sample returns.
func Sample(src videosource.Source, cfg Config) (videoclip.Clip, error) {
	defer func() {
		if err := src.Close(); err != nil {
			log.Error("unable to close video source [%s]: %v", src.Path(), err)
		}
	}()

	if err := cfg.Validate(); err != nil {
		return videoclip.Clip{}, err
	}

	frames := make([]videoclip.Frame, 0, cfg.NumFrames)
	for pos := 0; len(frames) < cfg.NumFrames; pos++ {
		raw, err := src.Read()
		if err != nil {
			log.Debug("video source [%s] exhausted after %d frames: %v", src.Path(), pos, err)
			break
		}

		if pos%cfg.FrameStep != 0 {
			raw.Close()
			continue
		}

		frame, err := normalize(raw)
		raw.Close()
		if err != nil {
			log.Warn("unusable frame %d from video source [%s], treating as end of stream: %v", pos, src.Path(), err)
			break
		}
		frames = append(frames, frame)
	}

	if len(frames) == 0 {
		return videoclip.Clip{}, xerror.Errorf("%w: %s", ErrEmptySource, src.Path())
	}

	if pad := cfg.NumFrames - len(frames); pad > 0 {
		log.Debug("padding clip from [%s] with %d zero frames", src.Path(), pad)
		zero := videoclip.ZeroFrame(frames[len(frames)-1].Shape())
		for i := 0; i < pad; i++ {
			frames = append(frames, zero)
		}
	}

	return videoclip.New(frames)
}

// Sampler opens videos by path through a backend and samples them.
type Sampler struct {
	backend videobackend.Backend
}

func New(backend videobackend.Backend) Sampler {
	return Sampler{backend: backend}
}

func (s Sampler) SampleFile(ctx context.Context, path string, cfg Config) (videoclip.Clip, error) {
	if err := cfg.Validate(); err != nil {
		return videoclip.Clip{}, err
	}
	src, err := videosource.Open(ctx, path, s.backend)
	if err != nil {
		return videoclip.Clip{}, err
	}
	return Sample(src, cfg)
}
