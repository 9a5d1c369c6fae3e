package strenc

import (
	"strconv"

	"github.com/eluv-io/errors-go"
)

// ID is the stable identity of a codec. Values are IANA character set MIBenum numbers, see
// https://www.iana.org/assignments/character-sets/character-sets.xhtml
type ID uint32

const (
	// None is not a codec. Outcome.Override is None when the requested codec produced the bytes.
	None     ID = 0
	USASCII  ID = 3
	ShiftJIS ID = 17
	UTF8     ID = 106
)

// IsNone returns true if the id does not denote a codec.
func (id ID) IsNone() bool {
	return id == None
}

// String returns the preferred MIME name of the codec in the default registry, or the decimal id if the codec is
// unknown.
func (id ID) String() string {
	if c, ok := Default.Lookup(id); ok {
		return c.Name()
	}
	return strconv.FormatUint(uint64(id), 10)
}

// MarshalText marshals the id as the codec's preferred name.
func (id ID) MarshalText() ([]byte, error) {
	if _, ok := Default.Lookup(id); !ok {
		return nil, errors.NoTrace("marshal codec id", errors.K.Invalid, ErrUnsupportedCodec, "id", uint32(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText parses a codec name, alias or decimal id known to the default registry.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return errors.NoTrace("unmarshal codec id", err)
	}
	*id = parsed
	return nil
}

// Parse returns the id of the codec with the given name, alias or decimal id in the default registry.
func Parse(s string) (ID, error) {
	return Default.Parse(s)
}
