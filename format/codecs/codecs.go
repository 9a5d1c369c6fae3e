package codecs

import (
	"encoding/json"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	cd "github.com/ugorji/go/codec"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"

	"github.com/eluv-io/plankton-go/format/plankton"
)

var log = elog.Get("/eluvio/format/codecs")

var (
	PlanktonCodec = makePlanktonCodec(plankton.NewEncoder(), plankton.NewDecoder())
	JsonCodec     = makeJsonCodec()
	CborCodec     = makeCborCodec()
	MsgpackCodec  = makeMsgpackCodec()

	PlanktonMultiCodecPath = "/plankton"
	JsonMultiCodecPath     = "/json"
	CborMultiCodecPath     = "/cborV2"
	MsgpackMultiCodecPath  = "/msgpack"

	PlanktonMultiCodec = NewMultiCodec(PlanktonCodec, PlanktonMultiCodecPath)
	JsonMultiCodec     = NewMultiCodec(JsonCodec, JsonMultiCodecPath)
	CborMultiCodec     = NewMultiCodec(CborCodec, CborMultiCodecPath)
	MsgpackMultiCodec  = NewMultiCodec(MsgpackCodec, MsgpackMultiCodecPath)

	// AnyMuxCodec encodes plankton and decodes streams of any of the known MultiCodecs.
	AnyMuxCodec = NewMuxCodec(PlanktonMultiCodec, JsonMultiCodec, CborMultiCodec, MsgpackMultiCodec)
)

var byName = map[string]MultiCodec{
	"plankton": PlanktonMultiCodec,
	"json":     JsonMultiCodec,
	"cbor":     CborMultiCodec,
	"msgpack":  MsgpackMultiCodec,
}

// ByName returns the MultiCodec with the given name: one of "plankton", "json", "cbor" or "msgpack". Names are
// case-insensitive and may carry the leading slash of the codec path.
func ByName(name string) (MultiCodec, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if key == "cborv2" {
		key = "cbor"
	}
	codec, ok := byName[key]
	if !ok {
		return nil, errors.E("codecs.ByName", errors.K.NotExist, "name", name, "known", Names())
	}
	return codec, nil
}

// Names returns the sorted names accepted by ByName.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPlanktonCodec returns a plankton MultiCodec configured with the given configuration. The codec shares the path
// of PlanktonMultiCodec: the configuration is not recorded in the stream, and decoders need a matching default string
// encoding unless the encoder writes explicit markers.
func NewPlanktonCodec(cfg plankton.Config) (MultiCodec, error) {
	enc, err := cfg.NewEncoder()
	if err != nil {
		return nil, errors.E("NewPlanktonCodec", err)
	}
	dec, err := cfg.NewDecoder()
	if err != nil {
		return nil, errors.E("NewPlanktonCodec", err)
	}
	log.Debug("plankton codec",
		"string_encoding", cfg.StringEncoding,
		"explicit_string_encoding", cfg.ExplicitStringEncoding)
	return NewMultiCodec(makePlanktonCodec(enc, dec), PlanktonMultiCodecPath), nil
}

// PlanktonEncode encodes the given value as plankton and writes it to w without a MultiCodec header.
func PlanktonEncode(w io.Writer, v interface{}) error {
	return PlanktonCodec.Encoder(w).Encode(v)
}

// PlanktonDecode decodes plankton data without a MultiCodec header from r into v.
func PlanktonDecode(r io.Reader, v interface{}) error {
	return PlanktonCodec.Decoder(r).Decode(v)
}

func makePlanktonCodec(enc *plankton.Encoder, dec *plankton.Decoder) Codec {
	return NewCodec(
		func(w io.Writer) Encoder {
			return enc.NewStreamEncoder(w)
		},
		func(r io.Reader) Decoder {
			return dec.NewStreamDecoder(r)
		},
	)
}

func makeJsonCodec() Codec {
	return NewCodec(
		func(w io.Writer) Encoder {
			return json.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			dec := json.NewDecoder(r)
			// keeps integers intact when converting to plankton
			dec.UseNumber()
			return dec
		},
	)
}

func makeCborCodec() Codec {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	enc, err := encOptions.EncMode()
	if err != nil {
		panic(errors.E("create cbor encoder mode", errors.K.Internal, err))
	}

	dec, err := cbor.DecOptions{
		DefaultMapType:   reflect.TypeOf((map[string]interface{})(nil)),
		TextUnmarshaler:  cbor.TextUnmarshalerTextString,
		MaxArrayElements: 1024 * 1024,       // github.com/fxamacker/cbor/v2 default is 128 * 1024
		MaxMapPairs:      1024 * 1024,       // github.com/fxamacker/cbor/v2 default is 128 * 1024
		MaxNestedLevels:  plankton.MaxDepth, // github.com/fxamacker/cbor/v2 default is 32
	}.DecMode()
	if err != nil {
		panic(errors.E("create cbor decoder mode", errors.K.Internal, err))
	}

	return NewCodec(
		func(w io.Writer) Encoder {
			return enc.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return dec.NewDecoder(r)
		},
	)
}

func makeMsgpackCodec() Codec {
	handle := &cd.MsgpackHandle{}
	handle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	handle.Canonical = true
	// distinguishes strings from binary data
	handle.WriteExt = true

	return NewCodec(
		func(w io.Writer) Encoder {
			return cd.NewEncoder(w, handle)
		},
		func(r io.Reader) Decoder {
			return cd.NewDecoder(r, handle)
		},
	)
}
