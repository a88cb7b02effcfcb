package tail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// DefaultMaxLineBytes bounds a single buffered line.
const DefaultMaxLineBytes = 1024 * 1024

// ErrNotRegular is returned when the followed path is not a regular file.
var ErrNotRegular = errors.New("log path is not a regular file")

// Options tune a Follower.
type Options struct {
	// StartAtEnd positions the cursor at the current end of file instead of
	// the beginning.
	StartAtEnd bool
	// MaxLineBytes caps a buffered line; zero uses DefaultMaxLineBytes and a
	// negative value disables the cap.
	MaxLineBytes int
}

// Result reports the outcome of one Poll.
type Result struct {
	// Reset is set when truncation was detected before reading.
	Reset bool
	// HasLine is set when a complete line was consumed.
	HasLine bool
	// Line is the decoded line without its terminator.
	Line string
	// Oversized marks a consumed line that exceeded MaxLineBytes; Line is empty.
	Oversized bool
}

// Follower reads complete lines appended to a file.
type Follower struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	decoder *encoding.Decoder
	maxLine int

	cursor   int64
	partial  int64
	pending  []byte
	skipping bool
	afterCR  bool
}

// Open opens path read-only and positions the cursor.
func Open(path string, opts Options) (*Follower, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	maxLine := opts.MaxLineBytes
	if maxLine == 0 {
		maxLine = DefaultMaxLineBytes
	}

	f := &Follower{
		path:    path,
		file:    file,
		reader:  bufio.NewReaderSize(file, 64*1024),
		decoder: unicode.UTF8BOM.NewDecoder(),
		maxLine: maxLine,
	}
	if opts.StartAtEnd {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("seek log file: %w", err)
		}
		f.cursor = offset
	}
	return f, nil
}

// Path returns the followed path.
func (f *Follower) Path() string {
	return f.path
}

// Cursor returns the byte offset just past the last complete line consumed.
func (f *Follower) Cursor() int64 {
	return f.cursor
}

// Poll performs one follow step: truncation check, then one line read.
// A Result with neither Reset nor HasLine means no complete line is
// available yet.
func (f *Follower) Poll() (Result, error) {
	var res Result

	info, err := f.file.Stat()
	if err != nil {
		return res, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < f.position() {
		if err := f.rewind(); err != nil {
			return res, err
		}
		res.Reset = true
	}

	line, complete, oversized, err := f.readLine()
	if err != nil {
		return res, err
	}
	if !complete {
		return res, nil
	}
	res.HasLine = true
	res.Oversized = oversized
	if !oversized {
		res.Line = f.decode(line)
	}
	return res, nil
}

// Close releases the file handle.
func (f *Follower) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// position is the logical read offset, including an incomplete line.
func (f *Follower) position() int64 {
	return f.cursor + f.partial
}

func (f *Follower) rewind() error {
	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}
	f.reader.Reset(f.file)
	f.pending = f.pending[:0]
	f.partial = 0
	f.skipping = false
	f.afterCR = false
	f.cursor = 0
	return nil
}

// readLine consumes one line ended by "\n", "\r" or "\r\n". A "\n" that
// directly follows a consumed "\r" is skipped, even across polls.
func (f *Follower) readLine() ([]byte, bool, bool, error) {
	if f.afterCR {
		next, err := f.reader.Peek(1)
		switch {
		case len(next) == 1:
			f.afterCR = false
			if next[0] == '\n' {
				_, _ = f.reader.Discard(1)
				f.cursor++
			}
		case errors.Is(err, io.EOF):
			return nil, false, false, nil
		default:
			return nil, false, false, fmt.Errorf("read log file: %w", err)
		}
	}

	for {
		if f.reader.Buffered() == 0 {
			if _, err := f.reader.Peek(1); err != nil {
				if errors.Is(err, io.EOF) {
					return nil, false, false, nil
				}
				return nil, false, false, fmt.Errorf("read log file: %w", err)
			}
		}
		buf, _ := f.reader.Peek(f.reader.Buffered())
		end := bytes.IndexAny(buf, "\r\n")
		chunk := buf
		if end >= 0 {
			chunk = buf[:end+1]
		}

		f.partial += int64(len(chunk))
		if !f.skipping {
			if f.maxLine > 0 && len(f.pending)+len(chunk) > f.maxLine {
				f.skipping = true
				f.pending = f.pending[:0]
			} else {
				f.pending = append(f.pending, chunk...)
			}
		}
		_, _ = f.reader.Discard(len(chunk))
		if end < 0 {
			continue
		}

		f.afterCR = buf[end] == '\r'
		f.cursor += f.partial
		f.partial = 0
		if f.skipping {
			f.skipping = false
			return nil, true, true, nil
		}
		line := f.pending
		f.pending = f.pending[:0]
		return line, true, false, nil
	}
}

func (f *Follower) decode(line []byte) string {
	text := string(line)
	if n := len(text); n > 0 && (text[n-1] == '\n' || text[n-1] == '\r') {
		text = text[:n-1]
	}
	decoded, err := f.decoder.String(text)
	if err != nil {
		return strings.ToValidUTF8(text, "\uFFFD")
	}
	return decoded
}
