package plankton

import (
	"encoding/binary"
	"math"

	"github.com/multiformats/go-varint"

	"github.com/eluv-io/plankton-go/format/plankton/strenc"
)

// Wire tags.
const (
	tagInt      byte = 0x00
	tagString   byte = 0x01
	tagSequence byte = 0x02
	tagMapping  byte = 0x03
	tagNull     byte = 0x04
	tagBool     byte = 0x05
	tagFloat    byte = 0x06
	tagBlob     byte = 0x0c
)

// defaultCodecMarker is the codec marker of strings written with the writer's default codec. Readers decode them with
// their own default codec.
const defaultCodecMarker = strenc.None

// writer serializes a value tree depth-first into a byte buffer. Identical values written with the same
// configuration always produce identical bytes.
type writer struct {
	buf      []byte
	registry *strenc.Registry
	codec    strenc.Codec // default codec for strings
	explicit bool         // write the codec id of every string instead of the default marker
}

func (w *writer) writeValue(v Value) {
	switch t := v.(type) {
	case nil, Null:
		w.buf = append(w.buf, tagNull)
	case Bool:
		w.buf = append(w.buf, tagBool, 0)
		if t {
			w.buf[len(w.buf)-1] = 1
		}
	case Int:
		w.buf = append(w.buf, tagInt)
		w.buf = binary.AppendVarint(w.buf, int64(t))
	case Float:
		w.buf = append(w.buf, tagFloat)
		w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(float64(t)))
	case String:
		w.writeString(string(t))
	case Blob:
		w.buf = append(w.buf, tagBlob)
		w.writeUvarint(uint64(len(t)))
		w.buf = append(w.buf, t...)
	case Sequence:
		w.buf = append(w.buf, tagSequence)
		w.writeUvarint(uint64(len(t)))
		for _, e := range t {
			w.writeValue(e)
		}
	case Mapping:
		w.buf = append(w.buf, tagMapping)
		w.writeUvarint(uint64(len(t)))
		for _, p := range t {
			w.writeValue(p.Key)
			w.writeValue(p.Value)
		}
	}
}

func (w *writer) writeString(text string) {
	out := w.registry.Resolve(text, w.codec)

	marker := defaultCodecMarker
	if out.Overridden() || w.explicit {
		marker = out.CodecID(w.codec.ID())
	}

	w.buf = append(w.buf, tagString)
	w.writeUvarint(uint64(marker))
	w.writeUvarint(uint64(len(out.Bytes)))
	w.buf = append(w.buf, out.Bytes...)
}

func (w *writer) writeUvarint(x uint64) {
	w.buf = append(w.buf, varint.ToUvarint(x)...)
}
