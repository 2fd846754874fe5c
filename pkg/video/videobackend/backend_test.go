package videobackend_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
	"github.com/tauraamui/signclips/pkg/video/videoframe"
)

func TestVideoBackendDefaultBackend(t *testing.T) {
	is := is.New(t)
	is.True(videobackend.Default() != nil)
}

func TestResolveMockBackendProducesRasterFrames(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Resolve(" Mock ")
	frame := backend.NewFrame()
	_, ok := frame.DataRef().(*image.RGBA)
	is.True(ok)
	is.Equal(frame.ChannelOrder(), videoframe.RGB)
}

func TestMockConnectionYieldsConfiguredFrameCountThenEndOfStream(t *testing.T) {
	is := is.New(t)
	backend := videobackend.MockWithFrameCount(3)
	conn, err := backend.Connect(context.Background(), "/videos/hello.mp4")
	is.NoErr(err)
	defer conn.Close()

	frame := backend.NewFrame()
	defer frame.Close()
	for i := 0; i < 3; i++ {
		is.NoErr(conn.Read(frame))
		is.Equal(frame.Dimensions(), videoframe.Dimensions{W: 160, H: 120})
		is.Equal(len(frame.ToBytes()), 160*120*3)
	}

	err = conn.Read(frame)
	is.True(errors.Is(err, videobackend.ErrEndOfStream))
}

func TestMockConnectionFramesDifferByIndex(t *testing.T) {
	is := is.New(t)
	backend := videobackend.MockWithFrameCount(2)
	conn, err := backend.Connect(context.Background(), "hello.mp4")
	is.NoErr(err)
	defer conn.Close()

	first, second := backend.NewFrame(), backend.NewFrame()
	is.NoErr(conn.Read(first))
	is.NoErr(conn.Read(second))
	is.True(string(first.ToBytes()) != string(second.ToBytes()))
}

func TestMockConnectionCloseMarksClosedAndStopsReads(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock()
	conn, err := backend.Connect(context.Background(), "hello.mp4")
	is.NoErr(err)
	is.True(conn.IsOpen())
	is.True(len(conn.UUID()) > 0)
	is.Equal(conn.UUID(), conn.UUID())

	is.NoErr(conn.Close())
	is.True(conn.IsOpen() == false)
	is.True(errors.Is(conn.Read(backend.NewFrame()), videobackend.ErrEndOfStream))
}

type invalidFrame struct{}

func (frame invalidFrame) DataRef() interface{}                  { return nil }
func (frame invalidFrame) Dimensions() videoframe.Dimensions     { return videoframe.Dimensions{W: 100, H: 50} }
func (frame invalidFrame) Channels() int                         { return 3 }
func (frame invalidFrame) ChannelOrder() videoframe.ChannelOrder { return videoframe.RGB }
func (frame invalidFrame) ToBytes() []byte                       { return nil }
func (frame invalidFrame) Close()                                {}

func TestMockConnectionReadWithIncorrectFrameDataReturnsError(t *testing.T) {
	is := is.New(t)
	conn, err := videobackend.Mock().Connect(context.Background(), "hello.mp4")
	is.NoErr(err)
	is.Equal(conn.Read(invalidFrame{}).Error(), "must pass raster frame to mock video connection read")
}

func TestMockConnectWithCancelledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := videobackend.Mock().Connect(ctx, "hello.mp4")
	is.Equal(err.Error(), "connection cancelled")
}
