package plankton

import (
	"io"

	"github.com/eluv-io/errors-go"
)

// StreamEncoder writes consecutive values to an io.Writer. Encode accepts Value trees as well as plain Go data,
// which is converted with FromGo.
type StreamEncoder struct {
	w   io.Writer
	enc *Encoder
}

// NewStreamEncoder returns a stream encoder writing to w with this encoder's configuration.
func (e *Encoder) NewStreamEncoder(w io.Writer) *StreamEncoder {
	return &StreamEncoder{w: w, enc: e}
}

func (s *StreamEncoder) Encode(obj interface{}) error {
	v, err := FromGo(obj)
	if err != nil {
		return errors.E("StreamEncoder.Encode", err)
	}
	return s.enc.EncodeTo(s.w, v)
}

// StreamDecoder reads consecutive values from an io.Reader. The format does not support partial decoding: the
// entire input is read on the first call to Decode, and subsequent calls return the following values. Decode returns
// io.EOF once all values have been consumed.
type StreamDecoder struct {
	r      io.Reader
	dec    *Decoder
	data   []byte
	loaded bool
	pos    int
}

// NewStreamDecoder returns a stream decoder reading from r with this decoder's configuration.
func (d *Decoder) NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{r: r, dec: d}
}

// Decode decodes the next value into target, see Decoder.DecodeInto.
func (s *StreamDecoder) Decode(target interface{}) error {
	if !s.loaded {
		data, err := io.ReadAll(s.r)
		if err != nil {
			return errors.E("StreamDecoder.Decode", errors.K.IO, err)
		}
		s.data = data
		s.loaded = true
	}
	if s.pos >= len(s.data) {
		return io.EOF
	}

	v, n, err := s.dec.DecodeNext(s.data[s.pos:])
	if err != nil {
		return errors.E("StreamDecoder.Decode", err, "stream_offset", s.pos)
	}
	s.pos += n
	return assign(v, target)
}
