// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"

	"vpdesign/internal/design"
)

// Options tune the text-like formats.
type Options struct {
	Header bool // column header for TSV
	Sort   bool // order by chromosome, anchor position and name
	Source string
}

// WriteFunc serializes a batch of viewpoints.
type WriteFunc func(w io.Writer, vps []*design.ViewPoint, opt Options) error

// Writers maps an output format to its handler. Formats register in init().
var Writers = map[string]WriteFunc{}

// Register adds or replaces the handler of format.
func Register(format string, fn WriteFunc) { Writers[format] = fn }

// Formats lists the registered formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(Writers))
	for f := range Writers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Write dispatches to the handler registered for format.
func Write(format string, w io.Writer, vps []*design.ViewPoint, opt Options) error {
	fn, ok := Writers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (want one of %v)", format, Formats())
	}
	if opt.Sort {
		vps = sorted(vps)
	}
	if opt.Source == "" {
		opt.Source = "vpdesign"
	}
	return fn(w, vps, opt)
}

// IsBrokenPipe reports whether a write failed because the reader went away,
// e.g. output piped into head.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
