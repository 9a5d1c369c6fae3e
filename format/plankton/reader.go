package plankton

import (
	"encoding/binary"
	"math"

	"github.com/multiformats/go-varint"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/plankton-go/format/plankton/strenc"
)

// MaxDepth is the maximum nesting depth of sequences and mappings accepted by the reader.
const MaxDepth = 100

// reader parses a value tree from a byte buffer.
type reader struct {
	data     []byte
	pos      int
	registry *strenc.Registry
	codec    strenc.Codec // codec for strings with the default marker
	depth    int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) errEnd(offset int) error {
	return errors.E("decode", errors.K.Invalid, ErrUnexpectedEndOfInput, "offset", offset)
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, r.errEnd(r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readBytes(n uint64) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, errors.E("decode", errors.K.Invalid, ErrUnexpectedEndOfInput,
			"offset", r.pos,
			"length", n,
			"remaining", r.remaining())
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) readUvarint() (uint64, error) {
	x, n, err := varint.FromUvarint(r.data[r.pos:])
	if err == varint.ErrUnderflow {
		return 0, r.errEnd(r.pos)
	} else if err != nil {
		return 0, errors.E("decode", errors.K.Invalid, ErrMalformedValue, "offset", r.pos, "reason", err.Error())
	}
	r.pos += n
	return x, nil
}

func (r *reader) readVarint() (int64, error) {
	x, n := binary.Varint(r.data[r.pos:])
	if n == 0 {
		return 0, r.errEnd(r.pos)
	} else if n < 0 {
		return 0, errors.E("decode", errors.K.Invalid, ErrMalformedValue, "offset", r.pos, "reason", "varint overflow")
	}
	r.pos += n
	return x, nil
}

// readCount reads the element count of a sequence or mapping. Every element occupies at least one byte, so a count
// beyond the remaining input can never be satisfied.
func (r *reader) readCount(perElement int) (int, error) {
	offset := r.pos
	count, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	if count > uint64(r.remaining()/perElement) {
		return 0, errors.E("decode", errors.K.Invalid, ErrUnexpectedEndOfInput,
			"offset", offset,
			"count", count,
			"remaining", r.remaining())
	}
	return int(count), nil
}

func (r *reader) enter() error {
	r.depth++
	if r.depth > MaxDepth {
		return errors.E("decode", errors.K.Invalid, ErrMaxDepth, "offset", r.pos, "max_depth", MaxDepth)
	}
	return nil
}

func (r *reader) leave() {
	r.depth--
}

func (r *reader) readValue() (Value, error) {
	offset := r.pos
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagNull:
		return Null{}, nil
	case tagBool:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, errors.E("decode", errors.K.Invalid, ErrMalformedValue, "offset", offset, "reason", "invalid bool", "value", b)
		}
		return Bool(b == 1), nil
	case tagInt:
		i, err := r.readVarint()
		if err != nil {
			return nil, err
		}
		return Int(i), nil
	case tagFloat:
		b, err := r.readBytes(8)
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case tagString:
		marker, raw, err := r.readRawString()
		if err != nil {
			return nil, err
		}
		text, err := r.decodeString(marker, raw)
		if err != nil {
			return nil, errors.E("decode", err, "offset", offset)
		}
		return String(text), nil
	case tagBlob:
		n, err := r.readUvarint()
		if err != nil {
			return nil, err
		}
		b, err := r.readBytes(n)
		if err != nil {
			return nil, err
		}
		return Blob(append([]byte{}, b...)), nil
	case tagSequence:
		if err = r.enter(); err != nil {
			return nil, err
		}
		defer r.leave()

		count, err := r.readCount(1)
		if err != nil {
			return nil, err
		}
		seq := make(Sequence, 0, count)
		for i := 0; i < count; i++ {
			e, err := r.readValue()
			if err != nil {
				return nil, err
			}
			seq = append(seq, e)
		}
		return seq, nil
	case tagMapping:
		if err = r.enter(); err != nil {
			return nil, err
		}
		defer r.leave()

		count, err := r.readCount(2)
		if err != nil {
			return nil, err
		}
		m := make(Mapping, 0, count)
		for i := 0; i < count; i++ {
			k, err := r.readValue()
			if err != nil {
				return nil, err
			}
			v, err := r.readValue()
			if err != nil {
				return nil, err
			}
			m = append(m, Pair{Key: k, Value: v})
		}
		return m, nil
	}
	return nil, errors.E("decode", errors.K.Invalid, ErrUnknownTag, "offset", offset, "tag", tag)
}

// readRawString reads the codec marker and the encoded bytes of a string whose tag was already consumed.
func (r *reader) readRawString() (strenc.ID, []byte, error) {
	offset := r.pos
	marker, err := r.readUvarint()
	if err != nil {
		return strenc.None, nil, err
	}
	if marker > math.MaxUint32 {
		return strenc.None, nil, errors.E("decode", errors.K.NotImplemented, ErrUnsupportedCodec,
			"offset", offset,
			"id", marker)
	}
	n, err := r.readUvarint()
	if err != nil {
		return strenc.None, nil, err
	}
	b, err := r.readBytes(n)
	if err != nil {
		return strenc.None, nil, err
	}
	return strenc.ID(marker), b, nil
}

// decodeString decodes the bytes of a string with the codec designated by its marker: the reader's default codec for
// the default marker, otherwise the registry codec with that id regardless of the reader's default.
func (r *reader) decodeString(marker strenc.ID, raw []byte) (string, error) {
	if marker == defaultCodecMarker {
		return r.codec.Decode(raw)
	}
	return r.registry.Decode(raw, marker)
}
