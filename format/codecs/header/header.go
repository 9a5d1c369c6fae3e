package header

import (
	"bytes"
	"io"

	mc "github.com/multiformats/go-multicodec"
)

var (
	ErrHeaderInvalid = mc.ErrHeaderInvalid
	ErrMismatch      = mc.ErrMismatch
	ErrVarints       = mc.ErrVarints
)

// maxPathLength is the longest path whose header length still fits the single length byte.
const maxPathLength = 125

// Header is the prefix written by MultiCodecs to identify the codec of an encoded stream:
//   - a single byte with the length of the rest of the header
//   - the codec path, by convention a slash followed by the codec name, e.g. "/plankton" or "/json"
//   - a terminating newline, which keeps the header readable in a hex dump
//
// Create it with New(path).
type Header []byte

// Path returns the codec path of the header.
func (h Header) Path() string {
	return Path(h)
}

// String is an alias of Path.
func (h Header) String() string {
	return h.Path()
}

// New returns the header for the given path. It panics if the path is too long, use NewNoPanic for paths that are not
// known at compile time.
func New(path string) Header {
	hdr, err := NewNoPanic(path)
	if err != nil {
		panic(err)
	}
	return hdr
}

// NewNoPanic works like New but returns ErrVarints instead of panicking if the path is too long.
func NewNoPanic(path string) (Header, error) {
	if len(path) > maxPathLength {
		return nil, ErrVarints
	}
	return mc.Header([]byte(path)), nil
}

// Path returns the codec path of the given header.
func Path(hdr Header) string {
	if len(hdr) < 2 {
		return ""
	}
	return string(mc.HeaderPath(hdr))
}

// WriteHeader writes the header to w.
func WriteHeader(w io.Writer, hdr Header) error {
	_, err := w.Write(hdr)
	return err
}

// ReadHeader reads the next header from r.
func ReadHeader(r io.Reader) (Header, error) {
	hdr, err := mc.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return hdr, nil
}

// ConsumeHeader reads a header from r and returns ErrMismatch if it differs from the expected header.
func ConsumeHeader(r io.Reader, expected Header) error {
	return mc.ConsumeHeader(r, expected)
}

// WrapHeaderReader returns a reader that yields the given header followed by the content of r. It allows handing a
// stream whose header was already consumed to a decoder that reads the header itself.
func WrapHeaderReader(hdr Header, r io.Reader) io.Reader {
	return io.MultiReader(bytes.NewReader(hdr), r)
}
