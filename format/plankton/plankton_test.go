package plankton_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/plankton-go/format/plankton"
	"github.com/eluv-io/plankton-go/format/plankton/strenc"
)

// U+FF83 is a half-width katakana "te": one byte in Shift_JIS, three bytes in UTF-8.
const (
	katakana = "foo ﾃ bar"
	ascii    = "foo bar"
)

func newEncoder(t *testing.T, id strenc.ID) *plankton.Encoder {
	enc := plankton.NewEncoder()
	require.NoError(t, enc.SetDefaultStringEncoding(id))
	return enc
}

func newDecoder(t *testing.T, id strenc.ID) *plankton.Decoder {
	dec := plankton.NewDecoder()
	require.NoError(t, dec.SetDefaultStringEncoding(id))
	return dec
}

func TestShiftJISDefault(t *testing.T) {
	encoded := newEncoder(t, strenc.ShiftJIS).Encode(plankton.String(katakana))

	// tag, default marker, length, 9 bytes of Shift_JIS
	require.Len(t, encoded, 12)
	require.Equal(t, []byte{0x01, 0x00, 0x09}, encoded[:3])

	decoded, err := newDecoder(t, strenc.ShiftJIS).Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, plankton.String(katakana), decoded)
}

func TestASCIIDefaultFallback(t *testing.T) {
	encoded := newEncoder(t, strenc.USASCII).Encode(plankton.String(katakana))

	// tag, UTF-8 override marker, length, 11 bytes of UTF-8
	require.Equal(t, []byte{0x01, byte(strenc.UTF8), 0x0b}, encoded[:3])
	require.Equal(t, []byte(katakana), encoded[3:])

	for _, id := range []strenc.ID{strenc.USASCII, strenc.ShiftJIS, strenc.UTF8} {
		decoded, err := newDecoder(t, id).Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, plankton.String(katakana), decoded)
	}
}

func TestASCIITextUnderUTF8(t *testing.T) {
	encoded := plankton.NewEncoder().Encode(plankton.String(ascii))
	require.Equal(t, append([]byte{0x01, 0x00, 0x07}, ascii...), encoded)

	asciiEncoded := newEncoder(t, strenc.USASCII).Encode(plankton.String(ascii))
	require.Equal(t, asciiEncoded, encoded)

	for _, id := range []strenc.ID{strenc.USASCII, strenc.UTF8} {
		decoded, err := newDecoder(t, id).Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, plankton.String(ascii), decoded)
	}
}

func TestMixedSequence(t *testing.T) {
	value := plankton.Seq(plankton.String(ascii), plankton.String(katakana))

	encoded := newEncoder(t, strenc.USASCII).Encode(value)
	decoded, err := plankton.NewDecoder().Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, value, decoded)
}

func sampleTree() plankton.Value {
	return plankton.Map(
		plankton.String("null"), plankton.Null{},
		plankton.String("bools"), plankton.Seq(plankton.Bool(true), plankton.Bool(false)),
		plankton.String("ints"), plankton.Seq(plankton.Int(0), plankton.Int(-1), plankton.Int(300),
			plankton.Int(math.MaxInt64), plankton.Int(math.MinInt64)),
		plankton.String("floats"), plankton.Seq(plankton.Float(1.5), plankton.Float(-1e300),
			plankton.Float(math.Inf(-1))),
		plankton.String("strings"), plankton.Seq(plankton.String(""), plankton.String(ascii),
			plankton.String(katakana), plankton.String("日本語"), plankton.String("café 😀")),
		plankton.String("blob"), plankton.Blob{0x00, 0xff, 0x10},
		plankton.Int(42), plankton.String("non-string key"),
		plankton.Seq(plankton.String("ｱ")), plankton.Map(plankton.String("nested"), plankton.Seq()),
		plankton.String("empty"), plankton.Map(),
	)
}

func TestRoundTrip(t *testing.T) {
	value := sampleTree()
	for _, id := range []strenc.ID{strenc.USASCII, strenc.ShiftJIS, strenc.UTF8} {
		for _, explicit := range []bool{false, true} {
			t.Run(id.String(), func(t *testing.T) {
				enc := newEncoder(t, id)
				enc.SetExplicitStringEncoding(explicit)
				encoded := enc.Encode(value)
				require.Equal(t, encoded, enc.Encode(value), "encoding must be deterministic")

				decoded, err := newDecoder(t, id).Decode(encoded)
				require.NoError(t, err)
				require.Equal(t, value, decoded)
				require.Equal(t, value.String(), decoded.String())
			})
		}
	}
}

func TestExplicitStringEncoding(t *testing.T) {
	enc := newEncoder(t, strenc.ShiftJIS)
	enc.SetExplicitStringEncoding(true)
	encoded := enc.Encode(plankton.String(katakana))
	require.Equal(t, []byte{0x01, byte(strenc.ShiftJIS), 0x09}, encoded[:3])

	// the reader's own default does not matter for explicitly marked strings
	decoded, err := plankton.NewDecoder().Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, plankton.String(katakana), decoded)
}

func TestMismatchedDefault(t *testing.T) {
	encoded := newEncoder(t, strenc.ShiftJIS).Encode(plankton.String(katakana))

	// the Shift_JIS byte of U+FF83 is not valid UTF-8
	_, err := plankton.NewDecoder().Decode(encoded)
	require.Error(t, err)
	require.True(t, errors.Is(err, plankton.ErrMalformedByteSequence), err)
	require.True(t, errors.IsKind(errors.K.Invalid, err))
}

func TestNilValue(t *testing.T) {
	encoded := plankton.NewEncoder().Encode(nil)
	require.Equal(t, []byte{0x04}, encoded)

	encoded = plankton.NewEncoder().Encode(plankton.Seq(nil))
	decoded, err := plankton.NewDecoder().Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, plankton.Seq(plankton.Null{}), decoded)
}

func TestTruncated(t *testing.T) {
	encoded := plankton.NewEncoder().Encode(sampleTree())
	dec := plankton.NewDecoder()
	for i := 0; i < len(encoded); i++ {
		v, err := dec.Decode(encoded[:i])
		require.Error(t, err, "prefix length %d", i)
		require.Nil(t, v)
		require.True(t, errors.Is(err, plankton.ErrUnexpectedEndOfInput), "prefix length %d: %s", i, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	deep := strings.Repeat("\x02\x01", plankton.MaxDepth+1) + "\x04"
	ok := strings.Repeat("\x02\x01", plankton.MaxDepth) + "\x04"

	tests := []struct {
		name  string
		data  []byte
		cause error
		kind  errors.Kind
	}{
		{"empty", nil, plankton.ErrUnexpectedEndOfInput, errors.K.Invalid},
		{"unknown tag", []byte{0x07}, plankton.ErrUnknownTag, errors.K.Invalid},
		{"invalid bool", []byte{0x05, 0x02}, plankton.ErrMalformedValue, errors.K.Invalid},
		{"non-minimal varint", []byte{0x0c, 0x80, 0x00}, plankton.ErrMalformedValue, errors.K.Invalid},
		{"unknown codec", []byte{0x01, 0x04, 0x01, 'a'}, plankton.ErrUnsupportedCodec, errors.K.NotImplemented},
		{"huge codec id", []byte{0x01, 0xff, 0xff, 0xff, 0xff, 0x7f, 0x00}, plankton.ErrUnsupportedCodec, errors.K.NotImplemented},
		{"malformed ascii", []byte{0x01, byte(strenc.USASCII), 0x01, 0xe0}, plankton.ErrMalformedByteSequence, errors.K.Invalid},
		{"malformed utf-8", []byte{0x01, 0x00, 0x02, 'a', 0xc3}, plankton.ErrMalformedByteSequence, errors.K.Invalid},
		{"string too long", []byte{0x01, 0x00, 0x05, 'a'}, plankton.ErrUnexpectedEndOfInput, errors.K.Invalid},
		{"count too large", []byte{0x02, 0xff, 0xff, 0x03, 0x04}, plankton.ErrUnexpectedEndOfInput, errors.K.Invalid},
		{"trailing data", []byte{0x04, 0x04}, plankton.ErrTrailingData, errors.K.Invalid},
		{"too deep", []byte(deep), plankton.ErrMaxDepth, errors.K.Invalid},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := plankton.NewDecoder().Decode(test.data)
			require.Error(t, err)
			require.Nil(t, v)
			require.True(t, errors.Is(err, test.cause), err)
			require.True(t, errors.IsKind(test.kind, err), err)
		})
	}

	_, err := plankton.NewDecoder().Decode([]byte(ok))
	require.NoError(t, err)
}

func TestDecodeNext(t *testing.T) {
	enc := plankton.NewEncoder()
	data := enc.Encode(plankton.Int(1))
	data = enc.AppendEncode(data, plankton.String(ascii))

	dec := plankton.NewDecoder()
	v, n, err := dec.DecodeNext(data)
	require.NoError(t, err)
	require.Equal(t, plankton.Int(1), v)
	require.Equal(t, 2, n)

	v, n, err = dec.DecodeNext(data[n:])
	require.NoError(t, err)
	require.Equal(t, plankton.String(ascii), v)
	require.Equal(t, 10, n)
}

func TestSetDefaultStringEncoding(t *testing.T) {
	enc := plankton.NewEncoder()
	require.Equal(t, strenc.UTF8, enc.DefaultStringEncoding())

	err := enc.SetDefaultStringEncoding(strenc.ID(12345))
	require.Error(t, err)
	require.True(t, errors.IsKind(errors.K.NotExist, err))
	require.Equal(t, strenc.UTF8, enc.DefaultStringEncoding())

	require.NoError(t, enc.SetDefaultStringEncoding(strenc.USASCII))
	require.NoError(t, enc.SetDefaultStringEncoding(strenc.ShiftJIS))
	require.Equal(t, strenc.ShiftJIS, enc.DefaultStringEncoding())

	dec := plankton.NewDecoder()
	require.Error(t, dec.SetDefaultStringEncoding(strenc.None))
	require.Equal(t, strenc.UTF8, dec.DefaultStringEncoding())
}

func TestBase64(t *testing.T) {
	value := plankton.Seq(plankton.String(ascii), plankton.String(katakana))
	enc := newEncoder(t, strenc.USASCII)

	s := enc.Base64Encode(value)
	decoded, err := plankton.NewDecoder().Base64Decode(s)
	require.NoError(t, err)
	require.Equal(t, value, decoded)

	_, err = plankton.NewDecoder().Base64Decode("not base64!")
	require.Error(t, err)
}

func TestStringify(t *testing.T) {
	value := plankton.Map(
		plankton.String("a"), plankton.Seq(plankton.Int(1), plankton.Float(2.5), plankton.Null{}, plankton.Bool(true)),
		plankton.Int(7), plankton.Blob{0x0a, 0x0b},
	)
	require.Equal(t, `{"a": [1, 2.5, null, true], 7: blob:0a0b}`, plankton.Stringify(value))
	require.Equal(t, "null", plankton.Stringify(nil))
	require.Equal(t, `"foo ﾃ bar"`, plankton.String(katakana).String())
}

func TestMapping(t *testing.T) {
	m := plankton.Map(plankton.String("a"), plankton.Int(1), plankton.String("b"))
	require.Len(t, m, 2)

	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, plankton.Null{}, v)

	_, ok = m.Get("c")
	require.False(t, ok)
}
