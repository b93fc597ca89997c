// Package textfile provides the file-backed line source and sink used by the
// converter. It owns every file-system detail so the core never touches a path.
package textfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/SugarParser/internal/core"
)

// MaxLineSize is the longest line a Source accepts.
const MaxLineSize = 1 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source reads an export line by line. It implements core.ReadCloser.
//
// A leading UTF-8 BOM is dropped, CRLF line endings are accepted and invalid
// UTF-8 sequences are replaced with '?'.
type Source struct {
	file    io.Closer
	scanner *bufio.Scanner
	line    string
	size    int64
}

// Open opens the export at path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	src := NewSource(f)
	src.file = f
	src.size = size
	return src, nil
}

// NewOpener adapts Open to core.Opener. Each opened export is logged with its size.
func NewOpener(logger core.Logger) core.Opener {
	return func(path string) (core.ReadCloser, error) {
		src, err := Open(path)
		if err != nil {
			return nil, err
		}
		logger.Info("opened export", "path", path, "size", humanize.Bytes(uint64(src.Size())))
		return src, nil
	}
}

// NewSource wraps r. Close on the returned Source is a no-op unless r came from Open.
func NewSource(r io.Reader) *Source {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Source{scanner: sc}
}

// Scan advances to the next line.
func (s *Source) Scan() bool {
	if !s.scanner.Scan() {
		return false
	}
	line := strings.TrimSuffix(s.scanner.Text(), "\r")
	s.line = strings.ToValidUTF8(line, "?")
	return true
}

// Text returns the current line without its line ending.
func (s *Source) Text() string {
	return s.line
}

// Err returns the first read error, if any.
func (s *Source) Err() error {
	return s.scanner.Err()
}

// Size returns the file size in bytes, or 0 when unknown.
func (s *Source) Size() int64 {
	return s.size
}

// Close releases the underlying file.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
