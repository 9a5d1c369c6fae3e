package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"github.com/ghodss/yaml"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/eluv-io/plankton-go/format/codecs"
	"github.com/eluv-io/plankton-go/format/plankton"
	"github.com/eluv-io/plankton-go/format/plankton/strenc"
	"github.com/eluv-io/plankton-go/util/aferoutil"
)

var log = elog.Get("/eluvio/cmd/pton")

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type app struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type options struct {
	config   string
	encoding string
	explicit bool
	armor    string
	format   string
	input    string
	to       string
	output   string
	logLevel string
}

type command struct {
	summary string
	flags   func(fs *pflag.FlagSet, o *options)
	run     func(cfg plankton.Config, o *options, data []byte, out *bytes.Buffer) error
}

var commands = map[string]*command{
	"decode": {
		summary: "decode plankton data and print the values",
		flags: func(fs *pflag.FlagSet, o *options) {
			fs.StringVar(&o.format, "format", "text", "output format: text, json or yaml")
		},
		run: runDecode,
	},
	"encode": {
		summary: "encode JSON, YAML or multicodec streams as plankton",
		flags: func(fs *pflag.FlagSet, o *options) {
			fs.BoolVar(&o.explicit, "explicit", false, "write the codec id of every string")
			fs.StringVar(&o.input, "input", "json", "input format: json, yaml or stream (any multicodec stream)")
		},
		run: runEncode,
	},
	"disasm": {
		summary: "print an annotated listing of the plankton wire structure",
		run:     runDisasm,
	},
	"convert": {
		summary: "convert plankton data to a multicodec stream",
		flags: func(fs *pflag.FlagSet, o *options) {
			fs.StringVar(&o.to, "to", "json", "target codec: "+strings.Join(codecs.Names(), ", "))
		},
		run: runConvert,
	},
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintln(a.stderr, "usage: pton COMMAND [FLAGS] [FILE...]")
	_, _ = fmt.Fprintln(a.stderr)
	for _, name := range names {
		_, _ = fmt.Fprintf(a.stderr, "  %-8s %s\n", name, commands[name].summary)
	}
	_, _ = fmt.Fprintln(a.stderr)
	_, _ = fmt.Fprintln(a.stderr, "Use \"pton COMMAND --help\" for the flags of a command.")
}

// run executes the command line and returns the exit code.
func (a *app) run(args []string) int {
	if len(args) == 0 {
		a.usage()
		return exitUsage
	}
	name := args[0]
	if name == "-h" || name == "--help" || name == "help" {
		a.usage()
		return exitOK
	}
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(a.stderr, "pton: unknown command %q\n", name)
		a.usage()
		return exitUsage
	}

	o := &options{}
	flags := pflag.NewFlagSet("pton "+name, pflag.ContinueOnError)
	flags.SetOutput(a.stderr)
	flags.StringVar(&o.config, "config", "", "YAML or JSON file with the plankton configuration")
	flags.StringVarP(&o.encoding, "encoding", "e", "", "default string encoding, overrides the configuration")
	flags.StringVarP(&o.armor, "armor", "a", "raw", "text armor of plankton data: "+strings.Join(armors, ", "))
	flags.StringVarP(&o.output, "output", "o", "", "output file instead of stdout")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level")
	if cmd.flags != nil {
		cmd.flags(flags, o)
	}

	err := flags.Parse(args[1:])
	if err == pflag.ErrHelp {
		return exitOK
	}
	if err == nil {
		err = o.validate()
	}
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "pton %s: %v\n", name, err)
		return exitUsage
	}

	elog.SetDefault(&elog.Config{Level: o.logLevel, Handler: "text"})

	cfg, err := a.config(flags, o)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "pton %s: %v\n", name, err)
		return exitUsage
	}

	err = a.execute(cmd, cfg, o, flags.Args())
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "pton %s: %v\n", name, err)
		return exitError
	}
	return exitOK
}

func (o *options) validate() error {
	e := errors.Template("validate", errors.K.Invalid)
	if !validArmor(o.armor) {
		return e("reason", "unknown armor", "armor", o.armor)
	}
	switch o.format {
	case "", "text", "json", "yaml":
	default:
		return e("reason", "unknown format", "format", o.format)
	}
	switch o.input {
	case "", "json", "yaml", "stream":
	default:
		return e("reason", "unknown input format", "input", o.input)
	}
	if o.to != "" {
		if _, err := codecs.ByName(o.to); err != nil {
			return e(err)
		}
	}
	return nil
}

// config loads the configuration file if given and applies the flags that were set explicitly.
func (a *app) config(flags *pflag.FlagSet, o *options) (plankton.Config, error) {
	cfg := plankton.DefaultConfig()
	if o.config != "" {
		text, err := afero.ReadFile(a.fs, o.config)
		if err != nil {
			return cfg, errors.E("config", errors.K.IO, err, "file", o.config)
		}
		cfg, err = plankton.LoadConfig(text)
		if err != nil {
			return cfg, errors.E("config", err, "file", o.config)
		}
	}
	if flags.Changed("encoding") {
		id, err := strenc.Parse(o.encoding)
		if err != nil {
			return cfg, errors.E("config", err)
		}
		cfg.StringEncoding = id
	}
	if flags.Changed("explicit") {
		cfg.ExplicitStringEncoding = o.explicit
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.E("config", err)
	}
	log.Debug("configuration", "string_encoding", cfg.StringEncoding, "explicit", cfg.ExplicitStringEncoding)
	return cfg, nil
}

func (a *app) execute(cmd *command, cfg plankton.Config, o *options, files []string) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	out := &bytes.Buffer{}
	for _, file := range files {
		data, err := a.read(file)
		if err != nil {
			return err
		}
		err = cmd.run(cfg, o, data, out)
		if err != nil {
			return errors.E("execute", err, "file", file)
		}
	}
	if o.output != "" {
		return aferoutil.WriteFile(a.fs, o.output, out.Bytes())
	}
	_, err := a.stdout.Write(out.Bytes())
	if err != nil {
		return errors.E("execute", errors.K.IO, err)
	}
	return nil
}

func (a *app) read(file string) ([]byte, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = afero.ReadFile(a.fs, file)
	}
	if err != nil {
		return nil, errors.E("read", errors.K.IO, err, "file", file)
	}
	return data, nil
}

// decodeAll decodes all consecutive values of the armored plankton input.
func decodeAll(cfg plankton.Config, o *options, data []byte) ([]plankton.Value, error) {
	dec, err := cfg.NewDecoder()
	if err != nil {
		return nil, err
	}
	raw, err := unarmor(o.armor, data)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.E("decode", errors.K.Invalid, plankton.ErrUnexpectedEndOfInput, "reason", "empty input")
	}

	var values []plankton.Value
	for pos := 0; pos < len(raw); {
		v, n, err := dec.DecodeNext(raw[pos:])
		if err != nil {
			return nil, errors.E("decode", err, "value_offset", pos)
		}
		values = append(values, v)
		pos += n
	}
	return values, nil
}

func runDecode(cfg plankton.Config, o *options, data []byte, out *bytes.Buffer) error {
	values, err := decodeAll(cfg, o, data)
	if err != nil {
		return err
	}
	for _, v := range values {
		switch o.format {
		case "json":
			bts, err := json.MarshalIndent(plankton.ToGo(v), "", "  ")
			if err != nil {
				return errors.E("decode", errors.K.Invalid, err, "format", o.format)
			}
			out.Write(bts)
			out.WriteByte('\n')
		case "yaml":
			bts, err := yaml.Marshal(plankton.ToGo(v))
			if err != nil {
				return errors.E("decode", errors.K.Invalid, err, "format", o.format)
			}
			out.WriteString("---\n")
			out.Write(bts)
		default:
			out.WriteString(plankton.Stringify(v))
			out.WriteByte('\n')
		}
	}
	return nil
}

func runEncode(cfg plankton.Config, o *options, data []byte, out *bytes.Buffer) error {
	enc, err := cfg.NewEncoder()
	if err != nil {
		return err
	}

	var objects []interface{}
	switch o.input {
	case "stream":
		objects, err = readStream(data)
	case "yaml":
		var text []byte
		text, err = yaml.YAMLToJSON(data)
		if err == nil {
			objects, err = readJSON(text)
		}
	default:
		objects, err = readJSON(data)
	}
	if err != nil {
		return errors.E("encode", errors.K.Invalid, err, "input", o.input)
	}

	var encoded []byte
	for _, obj := range objects {
		v, err := plankton.FromGo(obj)
		if err != nil {
			return errors.E("encode", err)
		}
		encoded = enc.AppendEncode(encoded, v)
	}
	armored, err := armor(o.armor, encoded)
	if err != nil {
		return err
	}
	out.Write(armored)
	return nil
}

// readJSON reads all consecutive JSON values of the text, keeping integers exact.
func readJSON(text []byte) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var objects []interface{}
	for {
		var obj interface{}
		err := dec.Decode(&obj)
		if err == io.EOF {
			return objects, nil
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
}

// readStream reads all objects of a multicodec stream produced by any of the known codecs.
func readStream(data []byte) ([]interface{}, error) {
	dec := codecs.AnyMuxCodec.Decoder(bytes.NewReader(data))
	var objects []interface{}
	for {
		var obj interface{}
		err := dec.Decode(&obj)
		if err == io.EOF {
			return objects, nil
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
}

func runDisasm(cfg plankton.Config, o *options, data []byte, out *bytes.Buffer) error {
	dec, err := cfg.NewDecoder()
	if err != nil {
		return err
	}
	raw, err := unarmor(o.armor, data)
	if err != nil {
		return err
	}
	listing, err := dec.Disassemble(raw)
	out.WriteString(listing)
	return err
}

func runConvert(cfg plankton.Config, o *options, data []byte, out *bytes.Buffer) error {
	codec, err := codecs.ByName(o.to)
	if err != nil {
		return err
	}
	if codec == codecs.PlanktonMultiCodec {
		// plankton output follows the string encoding configuration
		codec, err = codecs.NewPlanktonCodec(cfg)
		if err != nil {
			return err
		}
	}
	values, err := decodeAll(cfg, o, data)
	if err != nil {
		return err
	}
	enc := codec.Encoder(out)
	for _, v := range values {
		err = enc.Encode(plankton.ToGo(v))
		if err != nil {
			return errors.E("convert", err, "to", o.to)
		}
	}
	return nil
}
