package numpy

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tauraamui/xerror"
)

var magic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y', 0x01, 0x00}

// preamble is the magic, version and little endian header length prefix.
const preambleLen = 10

// WriteFloat32 encodes data as a little endian float32 .npy v1.0 array
// of the given shape.
func WriteFloat32(w io.Writer, data []float32, shape []int) error {
	if size := shapeSize(shape); size != len(data) {
		return xerror.Errorf("shape %v holds %d values, got %d", shape, size, len(data))
	}

	header, err := createHeader("<f4", shape)
	if err != nil {
		return xerror.Errorf("error creating numpy header: %w", err)
	}

	if _, err := w.Write(header); err != nil {
		return xerror.Errorf("error writing npy header: %w", err)
	}

	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	if _, err := w.Write(buf); err != nil {
		return xerror.Errorf("error writing npy data: %w", err)
	}

	return nil
}

func shapeSize(shape []int) int {
	size := 1
	for _, s := range shape {
		size *= s
	}
	return size
}

func createHeader(descr string, shape []int) ([]byte, error) {
	dims := make([]string, len(shape))
	for i, s := range shape {
		if s < 0 {
			return nil, xerror.Errorf("negative dimension %d in shape %v", s, shape)
		}
		dims[i] = strconv.Itoa(s)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}

	dict := "{'descr': '" + descr + "', 'fortran_order': False, 'shape': (" + tuple + "), }"

	// header must end in a newline and the whole preamble plus header
	// must be a multiple of 16 bytes
	padding := (16 - (preambleLen+len(dict)+1)%16) % 16
	headerLen := len(dict) + padding + 1
	if headerLen > math.MaxUint16 {
		return nil, xerror.Errorf("header length %d exceeds npy v1.0 limit", headerLen)
	}

	var header bytes.Buffer
	header.Write(magic)
	if err := binary.Write(&header, binary.LittleEndian, uint16(headerLen)); err != nil {
		return nil, xerror.Errorf("failed to write header dictionary length: %w", err)
	}
	header.WriteString(dict)
	header.Write(bytes.Repeat([]byte{' '}, padding))
	header.WriteByte('\n')

	return header.Bytes(), nil
}
