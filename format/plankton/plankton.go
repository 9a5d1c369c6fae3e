package plankton

import (
	"encoding/base64"
	"io"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"

	"github.com/eluv-io/plankton-go/format/plankton/strenc"
)

var log = elog.Get("/eluvio/format/plankton")

// Encoder serializes value trees. The zero value is not usable; create encoders with NewEncoder or Config.NewEncoder.
//
// An Encoder holds only its configuration. Configure it before sharing it between goroutines: Encode may be called
// concurrently, but not concurrently with the Set* methods.
type Encoder struct {
	registry *strenc.Registry
	codec    strenc.Codec
	explicit bool
}

// NewEncoder returns an encoder using the default registry with UTF-8 as default string encoding.
func NewEncoder() *Encoder {
	return &Encoder{
		registry: strenc.Default,
		codec:    strenc.UTF8Codec,
	}
}

// SetDefaultStringEncoding selects the codec that is attempted first for every string. Strings the codec cannot
// represent are written with the universal codec and marked with its id. Fails if the registry has no codec with
// the given id, in which case the configuration remains unchanged.
func (e *Encoder) SetDefaultStringEncoding(id strenc.ID) error {
	c, err := e.registry.Get(id)
	if err != nil {
		return errors.E("Encoder.SetDefaultStringEncoding", errors.K.NotExist, err)
	}
	e.codec = c
	return nil
}

// DefaultStringEncoding returns the id of the configured default string codec.
func (e *Encoder) DefaultStringEncoding() strenc.ID {
	return e.codec.ID()
}

// SetExplicitStringEncoding controls whether every string carries the id of its codec. By default, strings written
// with the default codec carry a marker that tells the reader to use its own default codec, which requires the
// reader to be configured with the same default. Explicit ids cost up to two bytes per string and remove that
// requirement.
func (e *Encoder) SetExplicitStringEncoding(explicit bool) {
	e.explicit = explicit
}

// Encode serializes the value. Encoding cannot fail: text the default codec cannot represent falls back to UTF-8.
func (e *Encoder) Encode(v Value) []byte {
	return e.AppendEncode(nil, v)
}

// AppendEncode appends the serialized value to buf and returns the extended buffer.
func (e *Encoder) AppendEncode(buf []byte, v Value) []byte {
	w := &writer{
		buf:      buf,
		registry: e.registry,
		codec:    e.codec,
		explicit: e.explicit,
	}
	w.writeValue(v)
	return w.buf
}

// EncodeTo serializes the value and writes it to the writer.
func (e *Encoder) EncodeTo(w io.Writer, v Value) error {
	_, err := w.Write(e.Encode(v))
	if err != nil {
		return errors.E("Encoder.EncodeTo", errors.K.IO, err)
	}
	return nil
}

// Base64Encode serializes the value and returns it in standard base64 encoding.
func (e *Encoder) Base64Encode(v Value) string {
	return base64.StdEncoding.EncodeToString(e.Encode(v))
}

// Decoder deserializes value trees. The zero value is not usable; create decoders with NewDecoder or
// Config.NewDecoder. The same concurrency rules as for Encoder apply.
type Decoder struct {
	registry *strenc.Registry
	codec    strenc.Codec
}

// NewDecoder returns a decoder using the default registry with UTF-8 as default string encoding.
func NewDecoder() *Decoder {
	return &Decoder{
		registry: strenc.Default,
		codec:    strenc.UTF8Codec,
	}
}

// SetDefaultStringEncoding selects the codec used for strings that were written with the writer's default codec.
// It must match the default string encoding of the encoder that produced the data.
func (d *Decoder) SetDefaultStringEncoding(id strenc.ID) error {
	c, err := d.registry.Get(id)
	if err != nil {
		return errors.E("Decoder.SetDefaultStringEncoding", errors.K.NotExist, err)
	}
	if log.IsDebug() {
		log.Debug("decoder default string encoding", "codec", c.Name())
	}
	d.codec = c
	return nil
}

// DefaultStringEncoding returns the id of the configured default string codec.
func (d *Decoder) DefaultStringEncoding() strenc.ID {
	return d.codec.ID()
}

// Decode deserializes a single value that must span the entire data. On failure, no value is returned.
func (d *Decoder) Decode(data []byte) (Value, error) {
	v, n, err := d.DecodeNext(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.E("Decoder.Decode", errors.K.Invalid, ErrTrailingData, "offset", n, "trailing", len(data)-n)
	}
	return v, nil
}

// DecodeNext deserializes the value at the start of data and returns it together with the number of bytes it
// occupies.
func (d *Decoder) DecodeNext(data []byte) (Value, int, error) {
	r := d.newReader(data)
	v, err := r.readValue()
	if err != nil {
		return nil, 0, errors.E("Decoder.Decode", err)
	}
	return v, r.pos, nil
}

// Base64Decode decodes a value from its standard base64 encoding.
func (d *Decoder) Base64Decode(s string) (Value, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.E("Decoder.Base64Decode", errors.K.Invalid, err)
	}
	return d.Decode(data)
}

func (d *Decoder) newReader(data []byte) *reader {
	return &reader{
		data:     data,
		registry: d.registry,
		codec:    d.codec,
	}
}
