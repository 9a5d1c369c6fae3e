package codecs_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/plankton-go/format/codecs"
	"github.com/eluv-io/plankton-go/format/plankton"
	"github.com/eluv-io/plankton-go/format/plankton/strenc"
)

var allCodecs = []codecs.MultiCodec{
	codecs.PlanktonMultiCodec,
	codecs.JsonMultiCodec,
	codecs.CborMultiCodec,
	codecs.MsgpackMultiCodec,
}

func TestCodecs(t *testing.T) {
	for _, c := range allCodecs {
		t.Run(c.Header().Path(), func(t *testing.T) {
			buf, data := encode(t, c)
			decode(t, c, buf, data)

			buf, data = encode(t, c)
			decodeInterface(t, c, buf, data)
		})
	}
}

func encode(t *testing.T, c codecs.MultiCodec) (*bytes.Buffer, []string) {
	buf := &bytes.Buffer{}
	var data []string
	e := c.Encoder(buf)
	for i := 0; i < 20; i++ {
		s := fmt.Sprintf("String %02d %b ﾃ", i, i)
		data = append(data, s)
		require.NoError(t, e.Encode(s))
	}
	require.Equal(t, []byte(c.Header()), buf.Bytes()[:len(c.Header())])
	return buf, data
}

func decode(t *testing.T, c codecs.MultiCodec, buf *bytes.Buffer, data []string) {
	d := c.Decoder(buf)
	var val string
	for _, s := range data {
		require.NoError(t, d.Decode(&val))
		require.Equal(t, s, val)
	}
	require.Error(t, d.Decode(&val))
}

func decodeInterface(t *testing.T, c codecs.MultiCodec, buf *bytes.Buffer, data []string) {
	d := c.Decoder(buf)
	var val interface{}
	for _, s := range data {
		require.NoError(t, d.Decode(&val))
		require.Equal(t, s, val)
	}
	require.Error(t, d.Decode(&val))
}

func sampleValue() plankton.Value {
	return plankton.Map(
		plankton.String("blob"), plankton.Blob{0xca, 0xfe},
		plankton.String("bool"), plankton.Bool(true),
		plankton.String("float"), plankton.Float(2.5),
		plankton.String("int"), plankton.Int(-42),
		plankton.String("list"), plankton.Seq(plankton.Int(1), plankton.String("foo ﾃ bar"), plankton.Null{}),
		plankton.String("nested"), plankton.Map(plankton.String("k"), plankton.Int(1000000)),
	)
}

// Converts a value tree through the binary codecs and back.
func TestConvert(t *testing.T) {
	value := sampleValue()
	for _, c := range []codecs.MultiCodec{codecs.PlanktonMultiCodec, codecs.CborMultiCodec, codecs.MsgpackMultiCodec} {
		t.Run(c.Header().Path(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, c.Encoder(buf).Encode(plankton.ToGo(value)))

			var decoded interface{}
			require.NoError(t, codecs.AnyMuxCodec.Decoder(buf).Decode(&decoded))

			converted, err := plankton.FromGo(decoded)
			require.NoError(t, err)
			require.Equal(t, value, converted)
		})
	}
}

func TestConvertJson(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, codecs.JsonMultiCodec.Encoder(buf).Encode(plankton.ToGo(sampleValue())))

	var decoded interface{}
	require.NoError(t, codecs.AnyMuxCodec.Decoder(buf).Decode(&decoded))

	converted, err := plankton.FromGo(decoded)
	require.NoError(t, err)

	// json carries blobs as base64 strings
	mapping := converted.(plankton.Mapping)
	for key, want := range map[string]plankton.Value{
		"blob":  plankton.String("yv4="),
		"int":   plankton.Int(-42),
		"float": plankton.Float(2.5),
	} {
		got, ok := mapping.Get(key)
		require.True(t, ok, key)
		require.Equal(t, want, got, key)
	}
}

func TestPlanktonCodec(t *testing.T) {
	sjis, err := codecs.NewPlanktonCodec(plankton.Config{StringEncoding: strenc.ShiftJIS})
	require.NoError(t, err)
	require.Equal(t, codecs.PlanktonMultiCodec.Header(), sjis.Header())

	buf := &bytes.Buffer{}
	require.NoError(t, sjis.Encoder(buf).Encode("foo ﾃ bar"))
	encoded := append([]byte(nil), buf.Bytes()...)

	var s string
	require.NoError(t, sjis.Decoder(bytes.NewReader(encoded)).Decode(&s))
	require.Equal(t, "foo ﾃ bar", s)

	err = codecs.PlanktonMultiCodec.Decoder(bytes.NewReader(encoded)).Decode(&s)
	require.True(t, errors.Is(err, plankton.ErrMalformedByteSequence))

	_, err = codecs.NewPlanktonCodec(plankton.Config{StringEncoding: 4})
	require.True(t, errors.IsKind(errors.K.NotExist, err))
}

func TestPlanktonEncodeDecode(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, codecs.PlanktonEncode(buf, []interface{}{"a", 1}))
	require.Equal(t, []byte{0x02, 0x02, 0x01, 0x00, 0x01, 'a', 0x00, 0x02}, buf.Bytes())

	var v plankton.Value
	require.NoError(t, codecs.PlanktonDecode(buf, &v))
	require.Equal(t, plankton.Seq(plankton.String("a"), plankton.Int(1)), v)
}

func TestHeaderMismatch(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, codecs.JsonMultiCodec.Encoder(buf).Encode("test"))

	var s string
	err := codecs.PlanktonMultiCodec.Decoder(buf).Decode(&s)
	require.Error(t, err)
	require.Equal(t, "invalid header", errors.Wrap(err).Field("reason"))
}

func TestByName(t *testing.T) {
	for _, name := range []string{"plankton", "/plankton", "PLANKTON", " json "} {
		c, err := codecs.ByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, c)
	}
	c, err := codecs.ByName("/cborV2")
	require.NoError(t, err)
	require.Equal(t, codecs.CborMultiCodec, c)

	_, err = codecs.ByName("gob")
	require.True(t, errors.IsKind(errors.K.NotExist, err))

	require.Equal(t, []string{"cbor", "json", "msgpack", "plankton"}, codecs.Names())
}
