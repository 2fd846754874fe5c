package sampler

import (
	"github.com/tauraamui/signclips/pkg/video/videoclip"
	"github.com/tauraamui/signclips/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const rgbChannels = 3

// normalize converts an interleaved decoded frame into an RGB, channel
// first float32 frame.
func normalize(frame videoframe.NoCloser) (videoclip.Frame, error) {
	dims := frame.Dimensions()
	if frame.Channels() != rgbChannels {
		return videoclip.Frame{}, xerror.Errorf("unsupported channel count %d", frame.Channels())
	}
	if dims.W <= 0 || dims.H <= 0 {
		return videoclip.Frame{}, xerror.Errorf("unsupported frame dimensions %dx%d", dims.W, dims.H)
	}

	src := frame.ToBytes()
	plane := dims.W * dims.H
	if len(src) != plane*rgbChannels {
		return videoclip.Frame{}, xerror.Errorf(
			"frame holds %d bytes, expected %d for %dx%d", len(src), plane*rgbChannels, dims.W, dims.H,
		)
	}

	// source offset of the red, green and blue channel within a pixel
	offsets := [rgbChannels]int{0, 1, 2}
	if frame.ChannelOrder() == videoframe.BGR {
		offsets = [rgbChannels]int{2, 1, 0}
	}

	data := make([]float32, plane*rgbChannels)
	for c, off := range offsets {
		dst := data[c*plane : (c+1)*plane]
		for i := range dst {
			dst[i] = float32(src[i*rgbChannels+off])
		}
	}

	return videoclip.NewFrame(videoclip.Shape{C: rgbChannels, H: dims.H, W: dims.W}, data)
}
