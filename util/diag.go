// diag.go prints the single fatal diagnostic the compiler ever raises
// (spec §7: first failure aborts, no recovery), colorized when stderr is
// a terminal. Grounded on hhramberg-go-vslc/src/util/perror.go's role as
// the compiler's error-reporting surface, reworked for Infix's
// synchronous single-error pipeline instead of a parallel error listener.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	posColor   = color.New(color.FgCyan)
)

// PrintDiagnostic writes a single CompileError to w, colorized if w is a
// terminal. Any other error is printed plainly.
func PrintDiagnostic(w io.Writer, path string, err error) {
	if err == nil {
		return
	}
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	ce, ok := err.(*CompileError)
	if !ok {
		fmt.Fprintf(w, "%s: %s\n", path, err)
		return
	}

	if !tty {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, ce.Row, ce.Col, ce.Kind, ce.Msg)
		return
	}

	fmt.Fprintf(w, "%s:%s: %s: %s\n",
		path,
		posColor.Sprintf("%d:%d", ce.Row, ce.Col),
		errorColor.Sprint(ce.Kind),
		ce.Msg,
	)
}
