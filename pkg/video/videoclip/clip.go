package videoclip

import (
	"github.com/tauraamui/xerror"
)

var ErrEmptyClip = xerror.New("clip must contain at least one frame")

// Shape is the channel, height, width layout of a single frame.
type Shape struct {
	C, H, W int
}

func (s Shape) Size() int {
	return s.C * s.H * s.W
}

// Frame is a normalized frame, pixel values are float32 laid
// out channel first, then height, then width.
type Frame struct {
	shape Shape
	data  []float32
}

func NewFrame(shape Shape, data []float32) (Frame, error) {
	if len(data) != shape.Size() {
		return Frame{}, xerror.Errorf(
			"frame data length %d does not match shape %dx%dx%d", len(data), shape.C, shape.H, shape.W,
		)
	}
	return Frame{shape: shape, data: data}, nil
}

func ZeroFrame(shape Shape) Frame {
	return Frame{shape: shape, data: make([]float32, shape.Size())}
}

func (f Frame) Shape() Shape { return f.shape }

func (f Frame) At(c, y, x int) float32 {
	return f.data[(c*f.shape.H+y)*f.shape.W+x]
}

// Data returns a copy of the frame's pixel values.
func (f Frame) Data() []float32 {
	d := make([]float32, len(f.data))
	copy(d, f.data)
	return d
}

func (f Frame) IsZero() bool {
	for _, v := range f.data {
		if v != 0 {
			return false
		}
	}
	return true
}

func (f Frame) Equal(o Frame) bool {
	if f.shape != o.shape || len(f.data) != len(o.data) {
		return false
	}
	for i := range f.data {
		if f.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Clip is an ordered, fixed length sequence of frames which all
// share the same shape. A clip is never mutated once built.
type Clip struct {
	frames []Frame
}

func New(frames []Frame) (Clip, error) {
	if len(frames) == 0 {
		return Clip{}, ErrEmptyClip
	}
	shape := frames[0].shape
	for i, f := range frames {
		if f.shape != shape {
			return Clip{}, xerror.Errorf("frame %d shape %+v differs from clip shape %+v", i, f.shape, shape)
		}
	}
	fs := make([]Frame, len(frames))
	copy(fs, frames)
	return Clip{frames: fs}, nil
}

func (c Clip) Len() int { return len(c.frames) }

func (c Clip) Frame(i int) Frame { return c.frames[i] }

func (c Clip) FrameShape() Shape {
	if len(c.frames) == 0 {
		return Shape{}
	}
	return c.frames[0].shape
}

// Shape returns the clip's tensor shape as T, C, H, W.
func (c Clip) Shape() []int {
	s := c.FrameShape()
	return []int{len(c.frames), s.C, s.H, s.W}
}

// Data stacks every frame into one contiguous T, C, H, W buffer.
func (c Clip) Data() []float32 {
	size := c.FrameShape().Size()
	out := make([]float32, 0, size*len(c.frames))
	for _, f := range c.frames {
		out = append(out, f.data...)
	}
	return out
}

func (c Clip) Equal(o Clip) bool {
	if len(c.frames) != len(o.frames) {
		return false
	}
	for i := range c.frames {
		if !c.frames[i].Equal(o.frames[i]) {
			return false
		}
	}
	return true
}
