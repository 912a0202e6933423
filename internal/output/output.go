// Package output carries the printer for primary command output.
//
// Commands print their results (commit lists, branch names, PR URLs)
// through the context-attached Printer so that stdout stays pipeable
// while diagnostics go to stderr via the log package.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
)

type printerKey struct{}

// Printer writes a command's primary output.
type Printer struct {
	out io.Writer
}

// WithPrinter attaches a Printer for the given writer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, printerKey{}, &Printer{out: w})
}

// FromContext returns the attached Printer, or one writing to stdout
// when the context carries none.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(printerKey{}).(*Printer); ok {
		return p
	}
	return &Printer{out: os.Stdout}
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Writer exposes the underlying writer for encoders that need one,
// like the JSON output of `config show`.
func (p *Printer) Writer() io.Writer {
	return p.out
}
