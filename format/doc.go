/*
Package format is the root of the serialization formats of this module.

The plankton package implements the plankton binary format: a compact, self-describing encoding of null, bool,
integer, float, string, blob, sequence and mapping values. Strings are encoded with a configurable default character
encoding and fall back to UTF-8, per string, when the default cannot represent the text. The strenc sub-package holds
the registry of string codecs.

The codecs package provides streaming codecs with multicodec headers, so that plankton streams can be stored and
exchanged next to JSON, CBOR and msgpack streams and told apart when read back:

	<len><multicodec-path>\n<encoded-data-1>...<encoded-data-n>
	e.g. \x0a/plankton\n<value-1><value-2><value-3>

The header is written once per stream, not once per value.
*/
package format
