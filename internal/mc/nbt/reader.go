package nbt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	TagEnd byte = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var (
	ErrInvalidTag    = errors.New("invalid tag type")
	ErrDepthExceeded = errors.New("nesting depth limit exceeded")
	ErrNegativeSize  = errors.New("negative length")
)

// Compound is a decoded TAG_Compound. Values are int8, int16, int32, int64, float32,
// float64, []byte, string, []any, Compound, []int32 or []int64.
type Compound map[string]any

// Lookup walks nested compounds along path.
func (c Compound) Lookup(path ...string) (any, bool) {
	var cur any = c
	for _, name := range path {
		comp, ok := cur.(Compound)
		if !ok {
			return nil, false
		}
		if cur, ok = comp[name]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func (c Compound) String(path ...string) (string, bool) {
	v, ok := c.Lookup(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c Compound) Int(path ...string) (int64, bool) {
	v, ok := c.Lookup(path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

type Reader struct {
	r        *bufio.Reader
	maxDepth int
}

type Option func(r *Reader)

// WithMaxDepth bounds how deeply compounds and lists may nest. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(r *Reader) {
		r.maxDepth = depth
	}
}

func NewReader(r io.Reader, options ...Option) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	reader := &Reader{r: br}
	for _, opt := range options {
		opt(reader)
	}
	return reader
}

// ReadRoot reads one named root tag, which must be a compound, and discards its name.
func (r *Reader) ReadRoot() (Compound, error) {
	ty, err := r.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if ty != TagCompound {
		return nil, fmt.Errorf("%w: root must be a compound, got %d", ErrInvalidTag, ty)
	}
	if _, err := r.readString(); err != nil {
		return nil, err
	}

	return r.readCompound(0)
}

func (r *Reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, unexpected(err)
	}
	return buf, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (r *Reader) readUint16() (uint16, error) {
	buf, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (r *Reader) readUint32() (uint32, error) {
	buf, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (r *Reader) readUint64() (uint64, error) {
	buf, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func (r *Reader) readLength() (int, error) {
	n, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	if int32(n) < 0 {
		return 0, ErrNegativeSize
	}
	return int(n), nil
}

func (r *Reader) readString() (string, error) {
	n, err := r.readUint16()
	if err != nil {
		return "", err
	}
	buf, err := r.readN(int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (r *Reader) readCompound(depth int) (Compound, error) {
	if r.maxDepth > 0 && depth >= r.maxDepth {
		return nil, ErrDepthExceeded
	}

	result := make(Compound)
	for {
		ty, err := r.r.ReadByte()
		if err != nil {
			return nil, unexpected(err)
		}
		if ty == TagEnd {
			return result, nil
		}

		name, err := r.readString()
		if err != nil {
			return nil, err
		}

		value, err := r.readPayload(ty, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result[name] = value
	}
}

func (r *Reader) readList(depth int) ([]any, error) {
	if r.maxDepth > 0 && depth >= r.maxDepth {
		return nil, ErrDepthExceeded
	}

	ty, err := r.r.ReadByte()
	if err != nil {
		return nil, unexpected(err)
	}
	n, err := r.readLength()
	if err != nil {
		return nil, err
	}

	// Minecraft writes empty lists with element type TAG_End.
	if n == 0 {
		return []any{}, nil
	}
	if ty == TagEnd {
		return nil, fmt.Errorf("%w: non-empty list of TAG_End", ErrInvalidTag)
	}

	result := make([]any, 0, min(n, 1024))
	for range n {
		value, err := r.readPayload(ty, depth+1)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

func (r *Reader) readPayload(ty byte, depth int) (any, error) {
	switch ty {
	case TagByte:
		b, err := r.r.ReadByte()
		if err != nil {
			return nil, unexpected(err)
		}
		return int8(b), nil

	case TagShort:
		v, err := r.readUint16()
		return int16(v), err

	case TagInt:
		v, err := r.readUint32()
		return int32(v), err

	case TagLong:
		v, err := r.readUint64()
		return int64(v), err

	case TagFloat:
		v, err := r.readUint32()
		return math.Float32frombits(v), err

	case TagDouble:
		v, err := r.readUint64()
		return math.Float64frombits(v), err

	case TagByteArray:
		n, err := r.readLength()
		if err != nil {
			return nil, err
		}
		buf, err := io.ReadAll(io.LimitReader(r.r, int64(n)))
		if err != nil {
			return nil, err
		}
		if len(buf) != n {
			return nil, io.ErrUnexpectedEOF
		}
		return buf, nil

	case TagString:
		return r.readString()

	case TagList:
		return r.readList(depth)

	case TagCompound:
		return r.readCompound(depth)

	case TagIntArray:
		n, err := r.readLength()
		if err != nil {
			return nil, err
		}
		result := make([]int32, 0, min(n, 1024))
		for range n {
			v, err := r.readUint32()
			if err != nil {
				return nil, err
			}
			result = append(result, int32(v))
		}
		return result, nil

	case TagLongArray:
		n, err := r.readLength()
		if err != nil {
			return nil, err
		}
		result := make([]int64, 0, min(n, 1024))
		for range n {
			v, err := r.readUint64()
			if err != nil {
				return nil, err
			}
			result = append(result, int64(v))
		}
		return result, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrInvalidTag, ty)
}
