package codecs

import (
	"io"
)

// Codec converts objects to and from a byte representation. Encoders and decoders are streaming: an encoder may be
// used for any number of consecutive objects, and the matching decoder returns them in the same order.
type Codec interface {
	// Decoder returns a decoder reading encoded objects from r.
	Decoder(r io.Reader) Decoder

	// Encoder returns an encoder writing encoded objects to w.
	Encoder(w io.Writer) Encoder
}

// Encoder encodes objects and writes them to an underlying io.Writer.
type Encoder interface {
	Encode(obj interface{}) error
}

// Decoder decodes the next object of an underlying io.Reader into the given target.
type Decoder interface {
	Decode(obj interface{}) error
}

////////////////////////////////////////////////////////////////////////////////

type CreateEncoderFn func(w io.Writer) Encoder
type CreateDecoderFn func(r io.Reader) Decoder

// NewCodec creates a Codec from an encoder and a decoder creation function.
func NewCodec(enc CreateEncoderFn, dec CreateDecoderFn) Codec {
	return &codec{encoderFn: enc, decoderFn: dec}
}

type codec struct {
	encoderFn CreateEncoderFn
	decoderFn CreateDecoderFn
}

func (c *codec) Decoder(r io.Reader) Decoder {
	return c.decoderFn(r)
}

func (c *codec) Encoder(w io.Writer) Encoder {
	return c.encoderFn(w)
}
