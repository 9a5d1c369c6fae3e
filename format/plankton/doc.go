/*
Package plankton implements a compact, self-describing binary serialization format for trees of heterogeneous
values: null, booleans, integers, floats, strings, blobs, sequences and mappings.

Strings are written with a configurable default character encoding. A string the default encoding cannot represent
is written with the universal UTF-8 encoding instead, and the id of that encoding travels with the string so that
any reader can decode it. Strings written with the default encoding carry a sentinel marker and are decoded with
the reader's own configured default, so writer and reader must agree on the default unless the encoder is
configured to mark every string explicitly (see Encoder.SetExplicitStringEncoding).

Wire format

	Value    := Null | Bool | Int | Float | String | Blob | Sequence | Mapping
	Int      := 0x00 zigzag-varint
	String   := 0x01 uvarint(codec) uvarint(len) bytes    codec 0 means "reader's default"
	Sequence := 0x02 uvarint(count) Value*
	Mapping  := 0x03 uvarint(count) (Value Value)*
	Null     := 0x04
	Bool     := 0x05 (0x00|0x01)
	Float    := 0x06 float64 (8 bytes, big endian)
	Blob     := 0x0c uvarint(len) bytes

Codec ids are IANA MIBenum numbers, see package strenc.
*/
package plankton
