// pton encodes, decodes, disassembles and converts plankton data.
//
//	pton decode  [--encoding NAME] [--armor raw|base64|base58|hex] [--format text|json|yaml] FILE...
//	pton encode  [--encoding NAME] [--explicit] [--input json|yaml|stream] [--armor ...] FILE...
//	pton disasm  [--encoding NAME] [--armor ...] FILE...
//	pton convert --to json|cbor|msgpack|plankton [--encoding NAME] [--armor ...] FILE...
//
// Without files, or with "-", input is read from stdin. Output goes to stdout unless --output is given.
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	a := &app{
		fs:     afero.NewOsFs(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	os.Exit(a.run(os.Args[1:]))
}
