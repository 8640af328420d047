package cli

import (
	"fmt"
	"io"
)

// IO carries the output streams of one invocation.
type IO struct {
	out    io.Writer
	errOut io.Writer
}

// NewIO creates an IO over the given streams.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Out returns the stdout stream, for collaborators that render themselves.
func (o *IO) Out() io.Writer { return o.out }

// Println writes a line to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes a line to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}
