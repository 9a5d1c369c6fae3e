package codecutil

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// MapUnmarshaler is implemented by types that decode themselves from a generic map.
type MapUnmarshaler interface {
	UnmarshalMap(m map[string]interface{}) error
}

var (
	mapUnmarshalerType  = reflect.TypeOf((*MapUnmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	byteSliceType       = reflect.TypeOf([]byte(nil))
)

// MapDecode decodes a generic structure, as produced by unmarshaling JSON or YAML into an interface{} or by
// converting a decoded plankton value to Go data, into dst (usually a pointer to a struct). The `json:...` tags of
// the destination fields determine the keys, just like with JSON unmarshaling.
//
// Decoding uses github.com/mitchellh/mapstructure with these additional conversions:
//   - destinations implementing MapUnmarshaler are decoded with UnmarshalMap
//   - destinations implementing encoding.TextUnmarshaler are decoded with UnmarshalText from strings, byte slices
//     and numbers (numbers are passed in their decimal text form)
//   - []byte destinations accept base64 encoded strings
//
// The optional squash parameter sets the Squash flag of the decoder configuration.
func MapDecode(src interface{}, dst interface{}, squash ...bool) error {
	cfg := &mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     dst,
		Squash:     len(squash) > 0 && squash[0],
		DecodeHook: decodeHook,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(src)
}

func decodeHook(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	t, ptr := resolve(t)
	switch dt := data.(type) {
	case map[string]interface{}:
		if ptr.Implements(mapUnmarshalerType) {
			ret := reflect.New(t).Interface()
			if err := ret.(MapUnmarshaler).UnmarshalMap(dt); err != nil {
				return nil, err
			}
			return ret, nil
		}
	case string:
		if ptr.Implements(textUnmarshalerType) {
			return unmarshalText(t, []byte(dt))
		}
		if t == byteSliceType {
			// JSON marshals byte slices as base64 strings
			return base64.StdEncoding.DecodeString(dt)
		}
	case []byte:
		if t != byteSliceType && ptr.Implements(textUnmarshalerType) {
			return unmarshalText(t, dt)
		}
	default:
		if !ptr.Implements(textUnmarshalerType) {
			break
		}
		if text, ok := numberText(data); ok {
			return unmarshalText(t, []byte(text))
		}
	}
	return data, nil
}

func unmarshalText(t reflect.Type, text []byte) (interface{}, error) {
	ret := reflect.New(t).Interface()
	if err := ret.(encoding.TextUnmarshaler).UnmarshalText(text); err != nil {
		return nil, err
	}
	return ret, nil
}

func numberText(data interface{}) (string, bool) {
	switch n := data.(type) {
	case json.Number:
		return n.String(), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	}
	return "", false
}

func resolve(t reflect.Type) (reflect.Type, reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t, reflect.PointerTo(t)
}
