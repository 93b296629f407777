package txcodec

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/mineblock/errors"
)

// reader walks a raw buffer. Every read is bounds checked so that a truncated
// or lying length field surfaces as ERR_MALFORMED_ENCODING instead of a panic.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) readBytes(n uint64, field string) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, errors.NewMalformedEncodingError("%s: need %d bytes at offset %d, have %d", field, n, r.pos, r.remaining())
	}

	b := r.buf[r.pos : r.pos+int(n) : r.pos+int(n)]
	r.pos += int(n)

	return b, nil
}

func (r *reader) readUint32(field string) (uint32, error) {
	b, err := r.readBytes(4, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readUint64(field string) (uint64, error) {
	b, err := r.readBytes(8, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) readVarInt(field string) (uint64, error) {
	if r.remaining() < 1 {
		return 0, errors.NewMalformedEncodingError("%s: missing compact size at offset %d", field, r.pos)
	}

	if size := varIntSize(r.buf[r.pos]); r.remaining() < size {
		return 0, errors.NewMalformedEncodingError("%s: compact size needs %d bytes at offset %d, have %d", field, size, r.pos, r.remaining())
	}

	v, n := bt.NewVarIntFromBytes(r.buf[r.pos:])
	r.pos += n

	return uint64(v), nil
}

// readCount reads a compact size count and rejects counts that could not fit in
// the rest of the buffer, given that every element takes at least minSize bytes.
func (r *reader) readCount(field string, minSize int) (uint64, error) {
	n, err := r.readVarInt(field)
	if err != nil {
		return 0, err
	}

	if n > uint64(r.remaining()/minSize) {
		return 0, errors.NewMalformedEncodingError("%s: count %d exceeds remaining %d bytes", field, n, r.remaining())
	}

	return n, nil
}

func varIntSize(first byte) int {
	switch first {
	case 0xfd:
		return 3
	case 0xfe:
		return 5
	case 0xff:
		return 9
	default:
		return 1
	}
}
