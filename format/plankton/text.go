package plankton

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Stringify returns a human-readable text form of the value, e.g.
//
//	{"name": "foo", "sizes": [1, 2.5, null], "raw": blob:0a0b}
//
// The text form is not meant to be parsed back.
func Stringify(v Value) string {
	sb := &strings.Builder{}
	writeText(sb, v)
	return sb.String()
}

func writeText(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(t)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(t), 10))
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case String:
		sb.WriteString(strconv.Quote(string(t)))
	case Blob:
		sb.WriteString("blob:")
		sb.WriteString(hex.EncodeToString(t))
	case Sequence:
		sb.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeText(sb, e)
		}
		sb.WriteByte(']')
	case Mapping:
		sb.WriteByte('{')
		for i, p := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeText(sb, p.Key)
			sb.WriteString(": ")
			writeText(sb, p.Value)
		}
		sb.WriteByte('}')
	}
}
