package strenc

import (
	"github.com/eluv-io/errors-go"
)

// Causes of string encoding and decoding failures. They are wrapped with errors.E and can be matched with errors.Is.
var (
	// ErrUnrepresentableCharacter is reported by Codec.Encode when the text contains a character outside the codec's
	// repertoire. It never leaves Resolve, which recovers by falling back to the universal codec.
	ErrUnrepresentableCharacter = errors.Str("unrepresentable character")

	// ErrMalformedByteSequence is reported by Codec.Decode when the bytes are not a valid encoding for the codec.
	ErrMalformedByteSequence = errors.Str("malformed byte sequence")

	// ErrUnsupportedCodec is reported when a codec id is not present in a registry.
	ErrUnsupportedCodec = errors.Str("unsupported codec")
)
