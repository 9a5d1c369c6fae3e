package plankton

import (
	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/plankton-go/format/plankton/strenc"
)

// Causes of decoding failures. They are wrapped with errors.E and can be matched with errors.Is.
var (
	ErrUnexpectedEndOfInput = errors.Str("unexpected end of input")
	ErrUnknownTag           = errors.Str("unknown tag")
	ErrMalformedValue       = errors.Str("malformed value")
	ErrTrailingData         = errors.Str("trailing data")
	ErrMaxDepth             = errors.Str("maximum nesting depth exceeded")

	ErrMalformedByteSequence = strenc.ErrMalformedByteSequence
	ErrUnsupportedCodec      = strenc.ErrUnsupportedCodec
)
