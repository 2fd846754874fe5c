package sampler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/signclips/pkg/sampler"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
	"github.com/tauraamui/signclips/pkg/video/videoclip"
	"github.com/tauraamui/signclips/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// testFrame is a 2x1 frame whose pixel bytes are derived from its
// decode position so retained frames can be identified afterwards.
type testFrame struct {
	pos      int
	order    videoframe.ChannelOrder
	channels int
	closed   *int
}

func (tf testFrame) DataRef() interface{}                  { return tf.pos }
func (tf testFrame) Dimensions() videoframe.Dimensions     { return videoframe.Dimensions{W: 2, H: 1} }
func (tf testFrame) Channels() int                         { return tf.channels }
func (tf testFrame) ChannelOrder() videoframe.ChannelOrder { return tf.order }
func (tf testFrame) Close()                                { *tf.closed++ }

func (tf testFrame) ToBytes() []byte {
	b := byte(tf.pos + 1)
	// pixel 0 then pixel 1, each as (first, second, third) channel
	return []byte{b, b + 100, b + 200, b, b + 100, b + 200}[:2*tf.channels]
}

type testSource struct {
	frames       int
	order        videoframe.ChannelOrder
	badFrameAt   int
	pos          int
	closeCount   int
	framesClosed int
}

func newTestSource(frames int) *testSource {
	return &testSource{frames: frames, order: videoframe.BGR, badFrameAt: -1}
}

func (ts *testSource) UUID() string { return "test-source" }
func (ts *testSource) Path() string { return "/videos/test.mp4" }
func (ts *testSource) IsOpen() bool { return ts.closeCount == 0 }

func (ts *testSource) Read() (videoframe.Frame, error) {
	if ts.closeCount > 0 || ts.pos >= ts.frames {
		return nil, videobackend.ErrEndOfStream
	}
	channels := 3
	if ts.pos == ts.badFrameAt {
		channels = 1
	}
	f := testFrame{pos: ts.pos, order: ts.order, channels: channels, closed: &ts.framesClosed}
	ts.pos++
	return f, nil
}

func (ts *testSource) Close() error {
	ts.closeCount++
	return nil
}

// redOf returns the red value of a test frame decoded at pos, which is
// the third byte for BGR sources and the first for RGB ones.
func redOf(pos int, order videoframe.ChannelOrder) float32 {
	if order == videoframe.BGR {
		return float32(pos + 1 + 200)
	}
	return float32(pos + 1)
}

func TestDefaultConfig(t *testing.T) {
	is := is.New(t)
	cfg := sampler.DefaultConfig()
	is.Equal(cfg.NumFrames, 13)
	is.Equal(cfg.FrameStep, 4)
	is.NoErr(cfg.Validate())
}

func TestSampleRetainsEveryFrameStepFrameFromLongSource(t *testing.T) {
	is := is.New(t)
	src := newTestSource(100)
	clip, err := sampler.Sample(src, sampler.Config{NumFrames: 6, FrameStep: 3})
	is.NoErr(err)

	is.Equal(clip.Len(), 6)
	is.Equal(clip.Shape(), []int{6, 3, 1, 2})
	for i := 0; i < clip.Len(); i++ {
		is.Equal(clip.Frame(i).At(0, 0, 0), redOf(i*3, videoframe.BGR))
		is.True(!clip.Frame(i).IsZero())
	}
	// decoding stops as soon as the clip is full
	is.Equal(src.pos, 16)
}

func TestSampleThirteenFramesStepFourFromTenFrameSource(t *testing.T) {
	is := is.New(t)
	src := newTestSource(10)
	clip, err := sampler.Sample(src, sampler.Config{NumFrames: 13, FrameStep: 4})
	is.NoErr(err)

	is.Equal(clip.Len(), 13)
	for i, pos := range []int{0, 4, 8} {
		is.Equal(clip.Frame(i).At(0, 0, 0), redOf(pos, videoframe.BGR))
	}
	zero := videoclip.ZeroFrame(clip.Frame(2).Shape())
	for i := 3; i < 13; i++ {
		is.True(clip.Frame(i).Equal(zero))
	}
}

func TestSampleFiveFramesStepOneKeepsAllWithoutPadding(t *testing.T) {
	is := is.New(t)
	clip, err := sampler.Sample(newTestSource(5), sampler.Config{NumFrames: 5, FrameStep: 1})
	is.NoErr(err)

	is.Equal(clip.Len(), 5)
	for i := 0; i < 5; i++ {
		is.Equal(clip.Frame(i).At(0, 0, 1), redOf(i, videoframe.BGR))
		is.True(!clip.Frame(i).IsZero())
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	is := is.New(t)
	cfg := sampler.Config{NumFrames: 7, FrameStep: 2}
	first, err := sampler.Sample(newTestSource(9), cfg)
	is.NoErr(err)
	second, err := sampler.Sample(newTestSource(9), cfg)
	is.NoErr(err)
	is.True(first.Equal(second))
	is.Equal(first.Data(), second.Data())
}

func TestSampleConvertsToRGBChannelFirst(t *testing.T) {
	is := is.New(t)
	for order, want := range map[videoframe.ChannelOrder][]float32{
		videoframe.BGR: {201, 201, 101, 101, 1, 1},
		videoframe.RGB: {1, 1, 101, 101, 201, 201},
	} {
		src := newTestSource(1)
		src.order = order
		clip, err := sampler.Sample(src, sampler.Config{NumFrames: 1, FrameStep: 1})
		is.NoErr(err)

		frame := clip.Frame(0)
		is.Equal(frame.Shape(), videoclip.Shape{C: 3, H: 1, W: 2})
		is.Equal(frame.Data(), want)
	}
}

func TestSampleReleasesSourceAndFrames(t *testing.T) {
	is := is.New(t)
	src := newTestSource(10)
	_, err := sampler.Sample(src, sampler.Config{NumFrames: 13, FrameStep: 4})
	is.NoErr(err)
	is.Equal(src.closeCount, 1)
	is.True(!src.IsOpen())
	is.Equal(src.framesClosed, 10)
}

func TestSampleEmptySourceReturnsErrEmptySource(t *testing.T) {
	is := is.New(t)
	src := newTestSource(0)
	_, err := sampler.Sample(src, sampler.DefaultConfig())
	is.True(errors.Is(err, sampler.ErrEmptySource))
	is.Equal(src.closeCount, 1)
}

func TestSampleTreatsUnusableFrameAsExhaustion(t *testing.T) {
	is := is.New(t)
	src := newTestSource(20)
	src.badFrameAt = 8
	clip, err := sampler.Sample(src, sampler.Config{NumFrames: 4, FrameStep: 4})
	is.NoErr(err)
	is.Equal(clip.Frame(1).At(0, 0, 0), redOf(4, videoframe.BGR))
	is.True(clip.Frame(2).IsZero())
	is.True(clip.Frame(3).IsZero())
	is.Equal(src.closeCount, 1)
}

func TestSampleInvalidConfigStillReleasesSource(t *testing.T) {
	is := is.New(t)
	for _, cfg := range []sampler.Config{
		{NumFrames: 0, FrameStep: 1},
		{NumFrames: 1, FrameStep: 0},
		{NumFrames: -3, FrameStep: -1},
	} {
		src := newTestSource(10)
		_, err := sampler.Sample(src, cfg)
		is.True(errors.Is(err, sampler.ErrInvalidConfig))
		is.Equal(src.closeCount, 1)
		is.Equal(src.pos, 0)
	}
}

func TestSamplerSampleFileWithMockBackend(t *testing.T) {
	is := is.New(t)
	s := sampler.New(videobackend.MockWithFrameCount(10))
	clip, err := s.SampleFile(context.Background(), "/videos/hello.mp4", sampler.DefaultConfig())
	is.NoErr(err)

	is.Equal(clip.Len(), 13)
	is.Equal(clip.Shape()[1], 3)
	is.True(!clip.Frame(2).IsZero())
	is.True(clip.Frame(3).IsZero())
}

type failingBackend struct{}

func (failingBackend) Connect(context.Context, string) (videobackend.Connection, error) {
	return nil, xerror.New("cannot open")
}

func (failingBackend) NewFrame() videoframe.Frame { return nil }

func TestSamplerSampleFileOpenErrorIsReturned(t *testing.T) {
	is := is.New(t)
	_, err := sampler.New(failingBackend{}).SampleFile(context.Background(), "missing.mp4", sampler.DefaultConfig())
	is.True(err != nil)
	is.True(!errors.Is(err, sampler.ErrEmptySource))
}
