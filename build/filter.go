package build

import (
	"bytes"
	"io"
	"strings"
)

// WarningMarker is the substring identifying compiler warning lines.
const WarningMarker = "warning"

// LineFilter is a line-oriented writer that drops every complete line for
// which Drop returns true.  Flush must be called once writing is done to
// emit a trailing partial line.
type LineFilter struct {
	out  io.Writer
	drop func(line string) bool
	buf  []byte
}

// NewLineFilter creates a filter writing the lines drop rejects to out
func NewLineFilter(out io.Writer, drop func(line string) bool) *LineFilter {
	return &LineFilter{out: out, drop: drop}
}

// NewWarningFilter creates a filter suppressing lines containing the
// warning marker.
func NewWarningFilter(out io.Writer) *LineFilter {
	return NewLineFilter(out, func(line string) bool {
		return strings.Contains(line, WarningMarker)
	})
}

func (lf *LineFilter) Write(p []byte) (int, error) {
	lf.buf = append(lf.buf, p...)

	for {
		i := bytes.IndexByte(lf.buf, '\n')
		if i < 0 {
			break
		}

		if err := lf.emit(lf.buf[:i+1]); err != nil {
			return 0, err
		}

		lf.buf = lf.buf[i+1:]
	}

	return len(p), nil
}

// Flush writes out any buffered partial line
func (lf *LineFilter) Flush() error {
	if len(lf.buf) == 0 {
		return nil
	}

	line := lf.buf
	lf.buf = nil
	return lf.emit(line)
}

func (lf *LineFilter) emit(line []byte) error {
	if lf.drop(string(line)) {
		return nil
	}

	_, err := lf.out.Write(line)
	return err
}
