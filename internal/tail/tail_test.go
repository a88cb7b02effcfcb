package tail_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lualog/internal/tail"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func openFollower(t *testing.T, path string, opts tail.Options) *tail.Follower {
	t.Helper()
	f, err := tail.Open(path, opts)
	if err != nil {
		t.Fatalf("open follower: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func mustPoll(t *testing.T, f *tail.Follower) tail.Result {
	t.Helper()
	res, err := f.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	return res
}

func TestPollReadsCompleteLines(t *testing.T) {
	path := writeLog(t, "first\nsecond\n")
	f := openFollower(t, path, tail.Options{})

	res := mustPoll(t, f)
	if !res.HasLine || res.Line != "first" {
		t.Fatalf("unexpected first result: %+v", res)
	}
	if f.Cursor() != 6 {
		t.Fatalf("cursor = %d, want 6", f.Cursor())
	}

	res = mustPoll(t, f)
	if !res.HasLine || res.Line != "second" {
		t.Fatalf("unexpected second result: %+v", res)
	}
	if f.Cursor() != 13 {
		t.Fatalf("cursor = %d, want 13", f.Cursor())
	}
}

func TestPollIdleDoesNotAdvance(t *testing.T) {
	path := writeLog(t, "only\n")
	f := openFollower(t, path, tail.Options{})
	mustPoll(t, f)

	for i := 0; i < 5; i++ {
		res := mustPoll(t, f)
		if res.HasLine || res.Reset {
			t.Fatalf("idle poll %d produced %+v", i, res)
		}
		if f.Cursor() != 5 {
			t.Fatalf("idle poll %d moved cursor to %d", i, f.Cursor())
		}
	}
}

func TestPollWaitsForNewline(t *testing.T) {
	path := writeLog(t, "abc")
	f := openFollower(t, path, tail.Options{})

	res := mustPoll(t, f)
	if res.HasLine {
		t.Fatalf("partial line reported as complete: %+v", res)
	}
	if f.Cursor() != 0 {
		t.Fatalf("cursor advanced on partial line: %d", f.Cursor())
	}

	appendLog(t, path, "def\n")
	res = mustPoll(t, f)
	if !res.HasLine || res.Line != "abcdef" {
		t.Fatalf("unexpected joined line: %+v", res)
	}
	if f.Cursor() != 7 {
		t.Fatalf("cursor = %d, want 7", f.Cursor())
	}
}

func TestPollDetectsTruncation(t *testing.T) {
	line := strings.Repeat("x", 49) + "\n"
	path := writeLog(t, strings.Repeat(line, 10))
	f := openFollower(t, path, tail.Options{})
	for i := 0; i < 10; i++ {
		if res := mustPoll(t, f); !res.HasLine {
			t.Fatalf("line %d missing", i)
		}
	}
	if f.Cursor() != 500 {
		t.Fatalf("cursor = %d, want 500", f.Cursor())
	}

	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	res := mustPoll(t, f)
	if !res.Reset {
		t.Fatalf("expected reset, got %+v", res)
	}
	if res.HasLine {
		t.Fatalf("unterminated line after reset reported: %+v", res)
	}
	if f.Cursor() != 0 {
		t.Fatalf("cursor after reset = %d, want 0", f.Cursor())
	}

	res = mustPoll(t, f)
	if res.Reset {
		t.Fatal("reset reported twice for one truncation")
	}

	appendLog(t, path, "\n")
	res = mustPoll(t, f)
	if !res.HasLine || res.Line != "0123456789" {
		t.Fatalf("unexpected line after reset: %+v", res)
	}
	if f.Cursor() != 11 {
		t.Fatalf("cursor = %d, want 11", f.Cursor())
	}
}

func TestPollTruncationDiscardsPartialLine(t *testing.T) {
	path := writeLog(t, "done\nhalf of a long line")
	f := openFollower(t, path, tail.Options{})
	mustPoll(t, f)
	mustPoll(t, f)

	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	res := mustPoll(t, f)
	if !res.Reset || !res.HasLine || res.Line != "new" {
		t.Fatalf("unexpected result after truncation: %+v", res)
	}
}

func TestPollStripsTerminatorsAndDecodes(t *testing.T) {
	path := writeLog(t, "\xef\xbb\xbfbom line\r\nbad \xff byte\n")
	f := openFollower(t, path, tail.Options{})

	res := mustPoll(t, f)
	if res.Line != "bom line" {
		t.Fatalf("line = %q, want %q", res.Line, "bom line")
	}
	res = mustPoll(t, f)
	if res.Line != "bad \uFFFD byte" {
		t.Fatalf("line = %q, want replacement character", res.Line)
	}
}

func TestPollSkipsOversizedLines(t *testing.T) {
	long := strings.Repeat("y", 200)
	path := writeLog(t, long+"\nshort\n")
	f := openFollower(t, path, tail.Options{MaxLineBytes: 64})

	res := mustPoll(t, f)
	if !res.HasLine || !res.Oversized || res.Line != "" {
		t.Fatalf("expected oversized line, got %+v", res)
	}
	if f.Cursor() != int64(len(long)+1) {
		t.Fatalf("cursor = %d, want %d", f.Cursor(), len(long)+1)
	}
	res = mustPoll(t, f)
	if res.Oversized || res.Line != "short" {
		t.Fatalf("unexpected line after oversized: %+v", res)
	}
}

func TestOpenStartAtEnd(t *testing.T) {
	path := writeLog(t, "old\n")
	f := openFollower(t, path, tail.Options{StartAtEnd: true})
	if f.Cursor() != 4 {
		t.Fatalf("cursor = %d, want 4", f.Cursor())
	}
	if res := mustPoll(t, f); res.HasLine {
		t.Fatalf("old line replayed: %+v", res)
	}
	appendLog(t, path, "new\n")
	if res := mustPoll(t, f); res.Line != "new" {
		t.Fatalf("unexpected line: %+v", res)
	}
}

func TestOpenErrors(t *testing.T) {
	_, err := tail.Open(filepath.Join(t.TempDir(), "missing.txt"), tail.Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	_, err = tail.Open(t.TempDir(), tail.Options{})
	if !errors.Is(err, tail.ErrNotRegular) {
		t.Fatalf("expected ErrNotRegular, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	f, err := tail.Open(writeLog(t, ""), tail.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestPollSplitsOnCarriageReturns(t *testing.T) {
	path := writeLog(t, "one\rtwo\r\nthree\n\rfour\n")
	f := openFollower(t, path, tail.Options{})

	want := []string{"one", "two", "three", "", "four"}
	for i, line := range want {
		res := mustPoll(t, f)
		if !res.HasLine || res.Line != line {
			t.Fatalf("poll %d = %+v, want line %q", i, res, line)
		}
	}
	if res := mustPoll(t, f); res.HasLine {
		t.Fatalf("unexpected extra line: %+v", res)
	}
	if f.Cursor() != 21 {
		t.Fatalf("cursor = %d, want 21", f.Cursor())
	}
}

func TestPollEmbeddedCarriageReturnEndsLine(t *testing.T) {
	path := writeLog(t, "|LUA|PRINT|ok\rdata: error|injected|PRINT|LUA|\n")
	f := openFollower(t, path, tail.Options{})

	for _, want := range []string{"|LUA|PRINT|ok", "data: error|injected|PRINT|LUA|"} {
		res := mustPoll(t, f)
		if res.Line != want {
			t.Fatalf("line = %q, want %q", res.Line, want)
		}
	}
}

func TestPollCRLFSplitAcrossPolls(t *testing.T) {
	path := writeLog(t, "first\r")
	f := openFollower(t, path, tail.Options{})

	if res := mustPoll(t, f); res.Line != "first" {
		t.Fatalf("line = %q, want first", res.Line)
	}
	if res := mustPoll(t, f); res.HasLine {
		t.Fatalf("unexpected line before LF arrives: %+v", res)
	}

	appendLog(t, path, "\nsecond\n")
	res := mustPoll(t, f)
	if !res.HasLine || res.Line != "second" {
		t.Fatalf("LF after CR produced %+v, want second", res)
	}
	if f.Cursor() != 14 {
		t.Fatalf("cursor = %d, want 14", f.Cursor())
	}
}
