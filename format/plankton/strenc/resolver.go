package strenc

// Outcome is the result of encoding a single text with a requested codec.
type Outcome struct {
	// Bytes is the encoded text.
	Bytes []byte
	// Override is None if the requested codec produced Bytes. Otherwise it is the id of the fallback codec that did,
	// and it must travel with the bytes so that readers can decode them independent of their own default.
	Override ID
}

// Overridden returns true if the bytes were produced by the fallback codec.
func (o Outcome) Overridden() bool {
	return !o.Override.IsNone()
}

// CodecID returns the id of the codec that produced the bytes, given the id of the requested codec.
func (o Outcome) CodecID(requested ID) ID {
	if o.Overridden() {
		return o.Override
	}
	return requested
}

// Resolve encodes the text with the requested codec and falls back to the universal codec if the requested codec
// cannot represent it. The fallback is chosen only for representability, never for size: a text the requested codec
// can represent is always encoded by it. Resolve never fails. A nil codec requests the fallback.
func (r *Registry) Resolve(text string, requested Codec) Outcome {
	fallback := r.Fallback()
	if requested == nil {
		requested = fallback
	}

	b, err := requested.Encode(text)
	if err == nil {
		return Outcome{Bytes: b}
	}
	if log.IsDebug() {
		log.Debug("falling back to universal codec",
			"requested", requested.Name(),
			"fallback", fallback.Name(),
			"error", err)
	}

	b, _ = fallback.Encode(text)
	return Outcome{Bytes: b, Override: fallback.ID()}
}

// Decode decodes the bytes with the codec of the given id. It fails with ErrUnsupportedCodec if the registry has no
// such codec and with ErrMalformedByteSequence if the codec rejects the bytes.
func (r *Registry) Decode(b []byte, id ID) (string, error) {
	c, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return c.Decode(b)
}

// Resolve resolves the text with the default registry.
func Resolve(text string, requested Codec) Outcome {
	return Default.Resolve(text, requested)
}

// Decode decodes the bytes with the default registry.
func Decode(b []byte, id ID) (string, error) {
	return Default.Decode(b, id)
}
