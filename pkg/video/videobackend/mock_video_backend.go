package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/signclips/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	defaultMockFrameCount = 60
	defaultMockWidth      = 160
	defaultMockHeight     = 120
)

type rasterFrame struct {
	img *image.RGBA
}

func (frame *rasterFrame) DataRef() interface{} {
	return frame.img
}

func (frame *rasterFrame) Dimensions() videoframe.Dimensions {
	b := frame.img.Bounds()
	return videoframe.Dimensions{W: b.Dx(), H: b.Dy()}
}

func (frame *rasterFrame) Channels() int { return 3 }

func (frame *rasterFrame) ChannelOrder() videoframe.ChannelOrder {
	return videoframe.RGB
}

// ToBytes drops the alpha channel, leaving interleaved RGB.
func (frame *rasterFrame) ToBytes() []byte {
	b := frame.img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := frame.img.Pix[frame.img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}

func (frame *rasterFrame) Close() {}

type mockVideoBackend struct {
	frameCount int
	w, h       int
}

func (b *mockVideoBackend) Connect(cancel context.Context, addr string) (Connection, error) {
	select {
	case <-cancel.Done():
		return nil, xerror.New("connection cancelled")
	default:
	}
	title := strings.TrimSuffix(filepath.Base(addr), filepath.Ext(addr))
	return &mockVideoConnection{
		title: title, frameCount: b.frameCount, w: b.w, h: b.h, isOpen: true,
	}, nil
}

func (b *mockVideoBackend) NewFrame() videoframe.Frame {
	return &rasterFrame{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

type mockVideoConnection struct {
	uuid            string
	title           string
	mu              sync.Mutex
	isOpen          bool
	frameCount      int
	framesRead      int
	w, h            int
	baseFrameCanvas image.Image
}

func (mvc *mockVideoConnection) UUID() string {
	if len(mvc.uuid) == 0 {
		mvc.uuid = uuid.NewString()
	}
	return mvc.uuid
}

func (mvc *mockVideoConnection) Read(frame videoframe.Frame) error {
	dst, ok := frame.DataRef().(*image.RGBA)
	if !ok {
		return xerror.New("must pass raster frame to mock video connection read")
	}

	mvc.mu.Lock()
	defer mvc.mu.Unlock()

	if !mvc.isOpen || mvc.framesRead >= mvc.frameCount {
		return ErrEndOfStream
	}

	if mvc.baseFrameCanvas == nil {
		mvc.baseFrameCanvas = renderBaseFrameCanvas(mvc.w, mvc.h)
	}

	img, err := drawTextLayerOntoBaseFrameClone(mvc.baseFrameCanvas, mvc.title, mvc.framesRead)
	if err != nil {
		return err
	}
	*dst = *img
	mvc.framesRead++

	return nil
}

func (mvc *mockVideoConnection) IsOpen() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen
}

func (mvc *mockVideoConnection) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.isOpen = false
	mvc.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, title string, index int) (*image.RGBA, error) {
	baseClone := cloneImage(base)
	h := baseClone.Bounds().Dy()
	if err := drawText(baseClone, 4, h/3, title); err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock video: %w", err)
	}
	if err := drawText(baseClone, 4, h, fmt.Sprintf("#%03d", index)); err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock video: %w", err)
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(w, h int) image.Image {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 0.75}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 0.75}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 0.75}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var (
	fontOnce sync.Once
	fontFace *truetype.Font
	fontErr  error
)

func parsedFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontFace, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return fontFace, fontErr
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	face, err := parsedFont()
	if err != nil {
		return err
	}
	fontSize := float64(canvas.Bounds().Dy()) / 5
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(face, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	yPosition := fixed.I((y)-textHeight.Ceil())/2 + fixed.I(textHeight.Ceil())
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: yPosition,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
