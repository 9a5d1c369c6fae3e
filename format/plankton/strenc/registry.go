package strenc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
)

var log = elog.Get("/eluvio/format/plankton/strenc")

// Default is the process-wide registry with the US-ASCII, Shift_JIS and UTF-8 codecs.
var Default = MustNewRegistry(ASCIICodec, ShiftJISCodec)

// Registry is an immutable lookup table of codecs keyed by their id. Every registry contains the universal UTF-8
// codec, which is the fallback for text that a requested codec cannot represent. A registry is safe for concurrent
// use.
type Registry struct {
	codecs map[ID]Codec
	names  map[string]ID
	ids    []ID
}

// NewRegistry creates a registry with the given codecs and the universal fallback codec. Ids and names must be
// unique, and the UTF-8 id is reserved for the fallback.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	e := errors.Template("NewRegistry", errors.K.Invalid)

	r := &Registry{
		codecs: make(map[ID]Codec, len(codecs)+1),
		names:  make(map[string]ID),
	}
	for _, c := range append([]Codec{UTF8Codec}, codecs...) {
		if c == nil {
			return nil, e("reason", "nil codec")
		}
		if c.ID().IsNone() {
			return nil, e("reason", "invalid codec id", "codec", c.Name())
		}
		if prev, ok := r.codecs[c.ID()]; ok {
			return nil, e("reason", "duplicate codec id", "id", uint32(c.ID()), "codec", c.Name(), "existing", prev.Name())
		}
		r.codecs[c.ID()] = c
		r.ids = append(r.ids, c.ID())
		for _, name := range append([]string{c.Name()}, c.Aliases()...) {
			key := strings.ToLower(name)
			if prev, ok := r.names[key]; ok && prev != c.ID() {
				return nil, e("reason", "duplicate codec name", "name", name, "codec", c.Name())
			}
			r.names[key] = c.ID()
		}
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(codecs ...Codec) *Registry {
	r, err := NewRegistry(codecs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the codec with the given id.
func (r *Registry) Lookup(id ID) (Codec, bool) {
	c, ok := r.codecs[id]
	return c, ok
}

// Get returns the codec with the given id or an ErrUnsupportedCodec error.
func (r *Registry) Get(id ID) (Codec, error) {
	c, ok := r.codecs[id]
	if !ok {
		return nil, errors.NoTrace("get codec", errors.K.NotImplemented, ErrUnsupportedCodec, "id", uint32(id))
	}
	return c, nil
}

// ByName returns the codec with the given name or alias. Names are case-insensitive.
func (r *Registry) ByName(name string) (Codec, bool) {
	id, ok := r.names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return r.codecs[id], true
}

// Parse returns the id of the codec with the given name, alias or decimal id.
func (r *Registry) Parse(s string) (ID, error) {
	if c, ok := r.ByName(s); ok {
		return c.ID(), nil
	}
	if n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32); err == nil {
		if c, ok := r.codecs[ID(n)]; ok {
			return c.ID(), nil
		}
	}
	return None, errors.NoTrace("parse codec", errors.K.NotExist, ErrUnsupportedCodec, "codec", s)
}

// IDs returns the ids of all codecs in ascending order.
func (r *Registry) IDs() []ID {
	return append([]ID(nil), r.ids...)
}

// Fallback returns the universal codec used when a requested codec cannot represent a text.
func (r *Registry) Fallback() Codec {
	return UTF8Codec
}
