package codecs

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/plankton-go/format/codecs/header"
)

// MuxHeader is the header written by a MuxCodec in Wrap mode.
var MuxHeader = header.New("/multicodec")

var _ MultiCodec = (*MuxCodec)(nil)

// NewMuxCodec creates a codec that muxes between the given codecs, see MuxCodec.
func NewMuxCodec(codecs ...MultiCodec) *MuxCodec {
	return &MuxCodec{Codecs: codecs, Select: SelectFirst}
}

// SelectCodec selects the codec to use for encoding the given object.
type SelectCodec func(v interface{}, codecs []MultiCodec) MultiCodec

// SelectFirst is the default SelectCodec function. It selects the first codec.
func SelectFirst(_ interface{}, codecs []MultiCodec) MultiCodec {
	if len(codecs) == 0 {
		return nil
	}
	return codecs[0]
}

// MuxCodec is a MultiCodec that muxes between the given codecs. The codec for encoding is chosen with the Select
// function for the first object being encoded, per default the first codec. The codec for decoding is chosen according
// to the header found in the data stream.
//
// The header is written only once at the beginning of the stream, even if the encoder is used for multiple objects.
// Likewise, the decoder expects a single header and decodes all subsequent objects with the same codec.
//
// MuxCodec encoders and decoders are NOT thread-safe.
type MuxCodec struct {
	Codecs []MultiCodec // codecs to use
	Select SelectCodec  // pick a codec for encoding
	Wrap   bool         // whether to write the mux header before the header of the selected codec
}

func (c *MuxCodec) Header() header.Header {
	return MuxHeader
}

func (c *MuxCodec) Encoder(w io.Writer) Encoder {
	return &muxEncoder{writer: w, mux: c}
}

func (c *MuxCodec) Decoder(r io.Reader) Decoder {
	return &muxDecoder{reader: r, mux: c}
}

func (c *MuxCodec) codecFor(hdr header.Header) MultiCodec {
	for _, codec := range c.Codecs {
		if bytes.Equal(hdr, codec.Header()) {
			return codec
		}
	}
	return nil
}

type muxEncoder struct {
	writer io.Writer
	mux    *MuxCodec
	enc    Encoder
}

func (e *muxEncoder) Encode(v interface{}) error {
	if e.enc == nil {
		sel := e.mux.Select
		if sel == nil {
			sel = SelectFirst
		}
		codec := sel(v, e.mux.Codecs)
		if codec == nil {
			return errors.E("muxEncoder.Encode", errors.K.Invalid, "reason", "no suitable encoder")
		}
		if e.mux.Wrap {
			if err := header.WriteHeader(e.writer, MuxHeader); err != nil {
				return errors.E("muxEncoder.Encode", errors.K.IO, err)
			}
		}
		e.enc = codec.Encoder(e.writer)
	}
	return e.enc.Encode(v)
}

type muxDecoder struct {
	reader io.Reader
	mux    *MuxCodec
	dec    Decoder
}

func (d *muxDecoder) Decode(v interface{}) error {
	if d.dec == nil {
		if d.mux.Wrap {
			if err := header.ConsumeHeader(d.reader, MuxHeader); err != nil {
				return errors.E("muxDecoder.Decode", errors.K.Invalid, err, "reason", "invalid mux header")
			}
		}

		hdr, err := header.ReadHeader(d.reader)
		if err != nil {
			if err == io.EOF {
				return err
			}
			return errors.E("muxDecoder.Decode", errors.K.Invalid, err)
		}

		codec := d.mux.codecFor(hdr)
		if codec == nil {
			return errors.E("muxDecoder.Decode", errors.K.NotImplemented,
				"reason", "no suitable decoder",
				"codec", hdr.Path())
		}

		// the selected codec consumes the header again
		d.dec = codec.Decoder(header.WrapHeaderReader(hdr, d.reader))
	}
	return d.dec.Decode(v)
}
