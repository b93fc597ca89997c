package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultSuffix is appended to the input file name to build the output name.
const DefaultSuffix = "_res"

// Sink writes report lines to Path, replacing any existing file.
// It implements core.LineSink.
//
// Lines are first written to a temporary file next to Path. The old file is
// removed and the temporary file renamed into place only after the write has
// fully succeeded, so a failed write never leaves a truncated report behind.
type Sink struct {
	Path string
}

// NewSink returns a Sink for path.
func NewSink(path string) *Sink {
	return &Sink{Path: path}
}

// WriteLines persists lines, each terminated by a newline.
func (s *Sink) WriteLines(lines []string) (err error) {
	if s.Path == "" {
		return errors.New("output path is empty")
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	var n int
	for i, line := range lines {
		written, werr := w.WriteString(line + "\n")
		if werr != nil {
			return fmt.Errorf("write line %d: %w", i+1, werr)
		}
		n += written
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old output: %w", err)
	}
	if err = os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}

	slog.Debug("output written",
		"path", s.Path,
		"lines", len(lines),
		"size", humanize.Bytes(uint64(n)),
	)
	return nil
}

// OutputPath derives the report path from the input path:
// <dir>/<name><suffix>.txt. An empty suffix uses DefaultSuffix.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dir := filepath.Dir(input)
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, name+suffix+".txt")
}
