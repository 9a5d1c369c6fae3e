package plankton

import (
	"github.com/ghodss/yaml"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/plankton-go/format/plankton/strenc"
	"github.com/eluv-io/plankton-go/util/codecutil"
)

// Config is the configuration of encoders and decoders.
//
//	string_encoding: Shift_JIS
//	explicit_string_encoding: false
type Config struct {
	// StringEncoding is the default string encoding. Names, aliases and decimal ids are accepted in config files.
	StringEncoding strenc.ID `json:"string_encoding"`
	// ExplicitStringEncoding makes encoders write the codec id of every string.
	ExplicitStringEncoding bool `json:"explicit_string_encoding"`
	// Registry is the codec registry. Nil selects strenc.Default.
	Registry *strenc.Registry `json:"-"`
}

// DefaultConfig returns the default configuration: UTF-8 default string encoding, default registry.
func DefaultConfig() Config {
	return Config{StringEncoding: strenc.UTF8}
}

// ConfigFromMap creates a configuration from a generic map, e.g. a section of a parsed config file. Missing entries
// keep their default values.
func ConfigFromMap(m map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	err := codecutil.MapDecode(m, &cfg)
	if err != nil {
		return cfg, errors.E("ConfigFromMap", errors.K.Invalid, err)
	}
	return cfg, cfg.Validate()
}

// LoadConfig parses a configuration in YAML or JSON format.
func LoadConfig(text []byte) (Config, error) {
	m := map[string]interface{}{}
	err := yaml.Unmarshal(text, &m)
	if err != nil {
		return DefaultConfig(), errors.E("LoadConfig", errors.K.Invalid, err)
	}
	return ConfigFromMap(m)
}

func (c *Config) registry() *strenc.Registry {
	if c.Registry == nil {
		return strenc.Default
	}
	return c.Registry
}

// Validate checks that the string encoding is known to the registry.
func (c *Config) Validate() error {
	if _, err := c.registry().Get(c.StringEncoding); err != nil {
		return errors.E("Config.Validate", errors.K.NotExist, err, "string_encoding", uint32(c.StringEncoding))
	}
	return nil
}

// NewEncoder creates an encoder with this configuration.
func (c Config) NewEncoder() (*Encoder, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	enc := NewEncoder()
	enc.registry = c.registry()
	enc.codec, _ = enc.registry.Lookup(c.StringEncoding)
	enc.explicit = c.ExplicitStringEncoding
	return enc, nil
}

// NewDecoder creates a decoder with this configuration.
func (c Config) NewDecoder() (*Decoder, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	dec := NewDecoder()
	dec.registry = c.registry()
	dec.codec, _ = dec.registry.Lookup(c.StringEncoding)
	return dec, nil
}
