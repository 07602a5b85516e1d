// Gteco is an interactive TECO-dialect text editor. Every typed character is
// executed immediately and can be rubbed out again, which makes the command
// language usable both as an editor and as a scripting tool.
package main

import (
	"os"

	"github.com/tecoline/gteco/pkg/buildinfo"
	"github.com/tecoline/gteco/pkg/editor"
	"github.com/tecoline/gteco/pkg/lsp"
	"github.com/tecoline/gteco/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			buildinfo.Program{}, lsp.Program{}, editor.Program{})))
}
