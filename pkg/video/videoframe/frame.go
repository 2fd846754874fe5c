package videoframe

type Dimensions struct {
	W, H int
}

// ChannelOrder is the order the interleaved colour channels
// of a decoded frame are laid out in.
type ChannelOrder int

const (
	BGR ChannelOrder = iota
	RGB
)

func (o ChannelOrder) String() string {
	switch o {
	case BGR:
		return "BGR"
	case RGB:
		return "RGB"
	default:
		return "UNKNOWN"
	}
}

type NoCloser interface {
	DataRef() interface{}
	Dimensions() Dimensions
	Channels() int
	ChannelOrder() ChannelOrder
	// ToBytes returns the pixel data interleaved in height, width,
	// channel order as the decoder produced it.
	ToBytes() []byte
}

type Frame interface {
	NoCloser
	Close()
}
