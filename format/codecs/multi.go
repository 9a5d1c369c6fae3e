package codecs

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/plankton-go/format/codecs/header"
)

// MultiCodec is a Codec producing and consuming self-describing encodings. The encoder writes a header naming the
// codec before the first object, and the decoder verifies that header before decoding the first object:
//
//	HEADER|object1|object2|...
//
// Use a MuxCodec in order to decode streams produced by any of several MultiCodecs.
type MultiCodec interface {
	Header() header.Header
	Encoder(w io.Writer) Encoder
	Decoder(r io.Reader) Decoder
}

// NewMultiCodec wraps the codec into a MultiCodec identified by the given path.
func NewMultiCodec(codec Codec, path string) MultiCodec {
	return &multiCodec{
		codec:  codec,
		header: header.New(path),
	}
}

type multiCodec struct {
	codec  Codec
	header header.Header
}

func (m *multiCodec) Header() header.Header {
	return m.header
}

func (m *multiCodec) Encoder(w io.Writer) Encoder {
	return &multiEncoder{
		writer:  w,
		encoder: m.codec.Encoder(w),
		header:  m.header,
	}
}

func (m *multiCodec) Decoder(r io.Reader) Decoder {
	return &multiDecoder{
		reader:  r,
		decoder: m.codec.Decoder(r),
		header:  m.header,
	}
}

////////////////////////////////////////////////////////////////////////////////

type multiEncoder struct {
	writer        io.Writer
	encoder       Encoder
	header        header.Header
	headerWritten bool
}

func (e *multiEncoder) Encode(obj interface{}) error {
	if !e.headerWritten {
		err := header.WriteHeader(e.writer, e.header)
		if err != nil {
			return errors.E("multiEncoder.Encode", errors.K.IO, err, "codec", e.header.Path())
		}
		e.headerWritten = true
	}
	return e.encoder.Encode(obj)
}

////////////////////////////////////////////////////////////////////////////////

type multiDecoder struct {
	reader     io.Reader
	decoder    Decoder
	header     header.Header
	headerRead bool
}

func (d *multiDecoder) Decode(obj interface{}) error {
	if !d.headerRead {
		hdr, err := header.ReadHeader(d.reader)
		if err != nil {
			if err == io.EOF {
				return err
			}
			return errors.E("multiDecoder.Decode", errors.K.Invalid, err, "codec", d.header.Path())
		}
		if !bytes.Equal(hdr, d.header) {
			return errors.E("multiDecoder.Decode", errors.K.Invalid,
				"reason", "invalid header",
				"expected", d.header.Path(),
				"actual", hdr.Path())
		}
		d.headerRead = true
	}
	return d.decoder.Decode(obj)
}
