package plankton

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBlob
	KindSequence
	KindMapping
)

var kindNames = [...]string{"null", "bool", "int", "float", "string", "blob", "sequence", "mapping"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a node of a value tree. The set of implementations is closed: Null, Bool, Int, Float, String, Blob,
// Sequence and Mapping. A nil Value is treated like Null.
type Value interface {
	Kind() Kind
	// String returns the text form of the value, see Stringify.
	String() string
	isValue()
}

type (
	Null     struct{}
	Bool     bool
	Int      int64
	Float    float64
	String   string
	Blob     []byte
	Sequence []Value
	Mapping  []Pair
)

// Pair is an entry of a Mapping.
type Pair struct {
	Key   Value
	Value Value
}

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Int) Kind() Kind      { return KindInt }
func (Float) Kind() Kind    { return KindFloat }
func (String) Kind() Kind   { return KindString }
func (Blob) Kind() Kind     { return KindBlob }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }

func (v Null) String() string     { return Stringify(v) }
func (v Bool) String() string     { return Stringify(v) }
func (v Int) String() string      { return Stringify(v) }
func (v Float) String() string    { return Stringify(v) }
func (v String) String() string   { return Stringify(v) }
func (v Blob) String() string     { return Stringify(v) }
func (v Sequence) String() string { return Stringify(v) }
func (v Mapping) String() string  { return Stringify(v) }

func (Null) isValue()     {}
func (Bool) isValue()     {}
func (Int) isValue()      {}
func (Float) isValue()    {}
func (String) isValue()   {}
func (Blob) isValue()     {}
func (Sequence) isValue() {}
func (Mapping) isValue()  {}

// Seq creates a sequence of the given values.
func Seq(values ...Value) Sequence {
	if values == nil {
		return Sequence{}
	}
	return Sequence(values)
}

// Map creates a mapping from alternating keys and values:
//
//	Map(String("a"), Int(1), String("b"), Int(2))
//
// A trailing key without value is mapped to Null.
func Map(kv ...Value) Mapping {
	m := make(Mapping, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		p := Pair{Key: kv[i], Value: Null{}}
		if i+1 < len(kv) {
			p.Value = kv[i+1]
		}
		m = append(m, p)
	}
	return m
}

// Get returns the value of the first pair whose key is the string key.
func (m Mapping) Get(key string) (Value, bool) {
	for _, p := range m {
		if s, ok := p.Key.(String); ok && string(s) == key {
			return p.Value, true
		}
	}
	return nil, false
}
