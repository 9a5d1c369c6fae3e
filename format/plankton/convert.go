package plankton

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/plankton-go/util/codecutil"
)

// FromGo converts plain Go data to a value tree:
//
//   - nil and nil pointers become Null
//   - bool, signed and unsigned integers, floats and strings become the corresponding scalar
//   - []byte becomes a Blob, other slices and arrays become a Sequence
//   - maps become a Mapping ordered by key
//   - json.Number becomes an Int if it is integral, a Float otherwise
//   - Value is returned as is
//   - any other type, e.g. a struct, is converted through its JSON representation
func FromGo(data interface{}) (Value, error) {
	return fromGo(reflect.ValueOf(data))
}

func fromGo(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}
	if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null{}, nil
		}
		return fromGo(rv.Elem())
	}
	if rv.CanInterface() {
		switch t := rv.Interface().(type) {
		case Value:
			return t, nil
		case json.Number:
			return fromNumber(t)
		case []byte:
			if t == nil {
				return Null{}, nil
			}
			return Blob(append([]byte{}, t...)), nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, errors.E("FromGo", errors.K.Invalid, "reason", "integer out of range", "value", u)
		}
		return Int(u), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		fallthrough
	case reflect.Array:
		seq := make(Sequence, rv.Len())
		for i := range seq {
			e, err := fromGo(rv.Index(i))
			if err != nil {
				return nil, err
			}
			seq[i] = e
		}
		return seq, nil
	case reflect.Map:
		return fromMap(rv)
	case reflect.Struct:
		return fromJSON(rv)
	}
	return nil, errors.E("FromGo", errors.K.Invalid, "reason", "unsupported type", "type", rv.Type().String())
}

func fromMap(rv reflect.Value) (Value, error) {
	if rv.IsNil() {
		return Null{}, nil
	}
	keys := rv.MapKeys()
	sortKeys(keys)
	m := make(Mapping, 0, len(keys))
	for _, key := range keys {
		k, err := fromGo(key)
		if err != nil {
			return nil, err
		}
		v, err := fromGo(rv.MapIndex(key))
		if err != nil {
			return nil, err
		}
		m = append(m, Pair{Key: k, Value: v})
	}
	return m, nil
}

// sortKeys orders map keys deterministically: strings and numbers by value, everything else by its default
// formatting.
func sortKeys(keys []reflect.Value) {
	less := func(a, b reflect.Value) bool {
		return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
	}
	if len(keys) > 0 {
		switch keys[0].Kind() {
		case reflect.String:
			less = func(a, b reflect.Value) bool { return a.String() < b.String() }
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			less = func(a, b reflect.Value) bool { return a.Int() < b.Int() }
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			less = func(a, b reflect.Value) bool { return a.Uint() < b.Uint() }
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
}

func fromJSON(rv reflect.Value) (Value, error) {
	e := errors.Template("FromGo", errors.K.Invalid, "type", rv.Type().String())

	bts, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, e(err)
	}
	dec := json.NewDecoder(bytes.NewReader(bts))
	dec.UseNumber()
	var generic interface{}
	if err = dec.Decode(&generic); err != nil {
		return nil, e(err)
	}
	return FromGo(generic)
}

func fromNumber(n json.Number) (Value, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, errors.E("FromGo", errors.K.Invalid, err, "number", string(n))
	}
	return Float(f), nil
}

// ToGo converts a value tree to plain Go data: nil, bool, int64, float64, string, []byte, []interface{} and
// map[string]interface{}. Mapping keys that are not strings are converted to their text form (see Stringify); if
// several keys map to the same string, the last one wins.
func ToGo(v Value) interface{} {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case Blob:
		return []byte(t)
	case Sequence:
		res := make([]interface{}, len(t))
		for i, e := range t {
			res[i] = ToGo(e)
		}
		return res
	case Mapping:
		res := make(map[string]interface{}, len(t))
		for _, p := range t {
			key, ok := p.Key.(String)
			if !ok {
				key = String(Stringify(p.Key))
			}
			res[string(key)] = ToGo(p.Value)
		}
		return res
	}
	return nil
}

// DecodeInto decodes the data and stores the result in the value pointed to by target. Pointers to Value and to
// interface{} receive the value tree and its ToGo conversion respectively; any other target, typically a struct, is
// populated from the ToGo conversion using the targets' `json` field tags.
func (d *Decoder) DecodeInto(data []byte, target interface{}) error {
	v, err := d.Decode(data)
	if err != nil {
		return err
	}
	return assign(v, target)
}

func assign(v Value, target interface{}) error {
	switch t := target.(type) {
	case *Value:
		*t = v
		return nil
	case *interface{}:
		*t = ToGo(v)
		return nil
	}
	err := codecutil.MapDecode(ToGo(v), target)
	if err != nil {
		return errors.E("DecodeInto", errors.K.Invalid, err, "target", fmt.Sprintf("%T", target))
	}
	return nil
}
