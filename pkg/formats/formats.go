// Package formats provides parsers for Lionhead game file formats.
package formats

import (
	"encoding/binary"
	"fmt"
	"math"
)

// cursor is a forward-only reader over a byte slice. It tracks the current
// byte offset so decode errors can report where the stream ran dry.
type cursor struct {
	data []byte
	pos  int
}

// take returns the next n bytes and advances the cursor.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedBWMData, n, c.pos, len(c.data)-c.pos)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// skip discards the next n bytes.
func (c *cursor) skip(n int) error {
	_, err := c.take(n)
	return err
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) float32() (float32, error) {
	v, err := c.uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// point3 reads three consecutive little-endian floats.
func (c *cursor) point3() ([3]float32, error) {
	var p [3]float32
	for i := 0; i < 3; i++ {
		v, err := c.float32()
		if err != nil {
			return p, err
		}
		p[i] = v
	}
	return p, nil
}

// fixedString reads a fixed-length null-padded string. Content after the
// first null byte is discarded; a field with no null decodes whole.
func (c *cursor) fixedString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i]), nil
		}
	}
	return string(b), nil
}
