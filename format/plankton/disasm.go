package plankton

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
)

// Disassemble renders the wire structure of the data as an indented listing, one line per value, prefixed with the
// offset of the value:
//
//	0000  sequence 2
//	0002    string default(US-ASCII) 7 "foo bar"
//	000c    string UTF-8 11 "foo ﾃ bar"
//
// Mapping keys are marked with a colon. Strings that cannot be decoded are listed with their raw bytes instead of
// failing the disassembly; structural errors do fail it.
func (d *Decoder) Disassemble(data []byte) (string, error) {
	sb := &strings.Builder{}
	r := d.newReader(data)
	for r.remaining() > 0 {
		err := r.disassemble(sb, "")
		if err != nil {
			return sb.String(), errors.E("Decoder.Disassemble", err)
		}
	}
	return sb.String(), nil
}

func (r *reader) disassemble(sb *strings.Builder, indent string) error {
	offset := r.pos
	line := func(format string, args ...interface{}) {
		_, _ = fmt.Fprintf(sb, "%04x  %s", offset, indent)
		_, _ = fmt.Fprintf(sb, format, args...)
		sb.WriteByte('\n')
	}

	tag, err := r.readByte()
	if err != nil {
		return err
	}
	switch tag {
	case tagNull, tagBool, tagInt, tagFloat, tagBlob:
		r.pos = offset
		v, err := r.readValue()
		if err != nil {
			return err
		}
		switch vt := v.(type) {
		case Blob:
			line("blob %d %s", len(vt), hex.EncodeToString(vt))
		case Null:
			line("null")
		default:
			line("%s %s", v.Kind(), Stringify(v))
		}
	case tagString:
		marker, raw, err := r.readRawString()
		if err != nil {
			return err
		}
		codec := r.codec.Name()
		if marker == defaultCodecMarker {
			codec = "default(" + codec + ")"
		} else if c, ok := r.registry.Lookup(marker); ok {
			codec = c.Name()
		} else {
			codec = "unknown(" + strconv.FormatUint(uint64(marker), 10) + ")"
		}
		text, err := r.decodeString(marker, raw)
		if err != nil {
			line("string %s %d <undecodable %s>", codec, len(raw), hex.EncodeToString(raw))
		} else {
			line("string %s %d %s", codec, len(raw), strconv.Quote(text))
		}
	case tagSequence, tagMapping:
		if err = r.enter(); err != nil {
			return err
		}
		defer r.leave()

		perElement := 1
		if tag == tagMapping {
			perElement = 2
		}
		count, err := r.readCount(perElement)
		if err != nil {
			return err
		}
		if tag == tagSequence {
			line("sequence %d", count)
			for i := 0; i < count; i++ {
				if err = r.disassemble(sb, indent+"  "); err != nil {
					return err
				}
			}
		} else {
			line("mapping %d", count)
			for i := 0; i < count; i++ {
				if err = r.disassemble(sb, indent+": "); err != nil {
					return err
				}
				if err = r.disassemble(sb, indent+"  "); err != nil {
					return err
				}
			}
		}
	default:
		return errors.E("decode", errors.K.Invalid, ErrUnknownTag, "offset", offset, "tag", tag)
	}
	return nil
}
