package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/eluv-io/errors-go"
	"github.com/mr-tron/base58"
)

// armors lists the text encodings of binary plankton data accepted by --armor.
var armors = []string{"raw", "base64", "base58", "hex"}

func validArmor(armor string) bool {
	for _, a := range armors {
		if a == armor {
			return true
		}
	}
	return false
}

// unarmor returns the binary data of the armored input. Surrounding whitespace is ignored for text armors.
func unarmor(kind string, data []byte) ([]byte, error) {
	e := errors.Template("unarmor", errors.K.Invalid, "armor", kind)
	if kind == "raw" {
		return data, nil
	}

	text := strings.Join(strings.Fields(string(data)), "")
	var res []byte
	var err error
	switch kind {
	case "base64":
		res, err = base64.StdEncoding.DecodeString(text)
	case "base58":
		res, err = base58.Decode(text)
	case "hex":
		res, err = hex.DecodeString(text)
	default:
		return nil, e("reason", "unknown armor")
	}
	if err != nil {
		return nil, e(err)
	}
	return res, nil
}

// armor returns the armored form of the binary data. Text armors end with a newline.
func armor(kind string, data []byte) ([]byte, error) {
	var text string
	switch kind {
	case "raw":
		return data, nil
	case "base64":
		text = base64.StdEncoding.EncodeToString(data)
	case "base58":
		text = base58.Encode(data)
	case "hex":
		text = hex.EncodeToString(data)
	default:
		return nil, errors.E("armor", errors.K.Invalid, "armor", kind, "reason", "unknown armor")
	}
	buf := bytes.NewBufferString(text)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
