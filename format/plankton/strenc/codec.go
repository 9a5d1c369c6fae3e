package strenc

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/eluv-io/errors-go"
)

// Codec converts text to and from bytes in a single character encoding.
type Codec interface {
	// ID returns the stable id of the codec. It is written to the wire for strings that need an explicit codec.
	ID() ID

	// Name returns the preferred name of the codec.
	Name() string

	// Aliases returns alternative names of the codec.
	Aliases() []string

	// Encode converts the text to bytes. It fails with ErrUnrepresentableCharacter if the text contains a character
	// that has no representation in the codec's repertoire.
	Encode(text string) ([]byte, error)

	// Decode converts bytes produced by Encode back to text. It fails with ErrMalformedByteSequence if the bytes are
	// not valid for the codec.
	Decode(b []byte) (string, error)
}

var (
	// ASCIICodec is the 7-bit US-ASCII codec.
	ASCIICodec = NewCodec(USASCII, "US-ASCII", ianaEncoding("US-ASCII"), "ascii", "us-ascii", "iso646-us")

	// ShiftJISCodec is the Shift_JIS codec. Half-width katakana occupy a single byte.
	ShiftJISCodec = NewCodec(ShiftJIS, "Shift_JIS", ianaEncoding("Shift_JIS"), "sjis", "shift-jis", "ms_kanji")

	// UTF8Codec is the universal codec. It represents all text and is the fallback of every registry.
	UTF8Codec Codec = utf8Codec{}
)

// NewCodec creates a codec from an x/text encoding. Encoding verifies that the produced bytes decode to the original
// text: legacy encodings like Shift_JIS map some distinct characters onto the same bytes, and such characters are
// reported as unrepresentable.
func NewCodec(id ID, name string, enc encoding.Encoding, aliases ...string) Codec {
	_, err := enc.NewEncoder().String(string(utf8.RuneError))
	return &textCodec{
		id:             id,
		name:           name,
		aliases:        aliases,
		enc:            enc,
		hasReplacement: err == nil,
	}
}

func ianaEncoding(name string) encoding.Encoding {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		panic(errors.E("strenc.ianaEncoding", errors.K.Internal, err, "reason", "encoding not available", "name", name))
	}
	return enc
}

// ===== textCodec =============================================================

type textCodec struct {
	id      ID
	name    string
	aliases []string
	enc     encoding.Encoding
	// hasReplacement is true if U+FFFD is part of the repertoire. If it is not, a decoded U+FFFD can only stem from
	// an invalid byte sequence.
	hasReplacement bool
}

func (c *textCodec) ID() ID            { return c.id }
func (c *textCodec) Name() string      { return c.name }
func (c *textCodec) Aliases() []string { return c.aliases }

func (c *textCodec) Encode(text string) ([]byte, error) {
	e := errors.TemplateNoTrace("encode", errors.K.Invalid, ErrUnrepresentableCharacter, "codec", c.name)

	b, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, e("reason", "rune not in repertoire", "error", err.Error())
	}
	decoded, err := c.Decode(b)
	if err != nil || decoded != text {
		return nil, e("reason", "no round trip")
	}
	return b, nil
}

func (c *textCodec) Decode(b []byte) (string, error) {
	e := errors.TemplateNoTrace("decode", errors.K.Invalid, ErrMalformedByteSequence, "codec", c.name)

	decoded, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", e("reason", "invalid byte sequence", "error", err.Error())
	}
	if !c.hasReplacement {
		if idx := bytes.IndexRune(decoded, utf8.RuneError); idx >= 0 {
			return "", e("reason", "invalid byte sequence", "text_offset", idx)
		}
	}
	return string(decoded), nil
}

// ===== utf8Codec =============================================================

// utf8Codec works on the native representation of Go strings.
type utf8Codec struct{}

func (utf8Codec) ID() ID            { return UTF8 }
func (utf8Codec) Name() string      { return "UTF-8" }
func (utf8Codec) Aliases() []string { return []string{"utf8"} }

// Encode never fails. Strings that are not valid UTF-8 are not text and are passed through unchanged.
func (utf8Codec) Encode(text string) ([]byte, error) {
	return []byte(text), nil
}

func (utf8Codec) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.NoTrace("decode", errors.K.Invalid, ErrMalformedByteSequence,
			"codec", "UTF-8",
			"offset", invalidUTF8Offset(b))
	}
	return string(b), nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
