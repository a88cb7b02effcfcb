package classify

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantKind Kind
		wantMsg  string
	}{
		{
			name:     "print message",
			line:     "12:00:01 [script] |LUA|PRINT|hello|PRINT|LUA| trailing",
			wantOK:   true,
			wantKind: KindPrint,
			wantMsg:  "hello",
		},
		{
			name:     "error message",
			line:     "12:00:02 |LUA|ERROR|bad thing|ERROR|LUA|",
			wantOK:   true,
			wantKind: KindError,
			wantMsg:  "bad thing",
		},
		{
			name:     "empty payload",
			line:     "|LUA|PRINT||PRINT|LUA|",
			wantOK:   true,
			wantKind: KindPrint,
			wantMsg:  "",
		},
		{
			name:     "whitespace preserved",
			line:     "|LUA|PRINT|  padded  |PRINT|LUA|",
			wantOK:   true,
			wantKind: KindPrint,
			wantMsg:  "  padded  ",
		},
		{
			name:     "first non-greedy match wins",
			line:     "|LUA|PRINT|one|PRINT|LUA| |LUA|PRINT|two|PRINT|LUA|",
			wantOK:   true,
			wantKind: KindPrint,
			wantMsg:  "one",
		},
		{
			name:     "print checked before error",
			line:     "|LUA|ERROR|oops|ERROR|LUA| |LUA|PRINT|still print|PRINT|LUA|",
			wantOK:   true,
			wantKind: KindPrint,
			wantMsg:  "still print",
		},
		{
			name:   "no markers",
			line:   "2024-01-01 INFO engine started",
			wantOK: false,
		},
		{
			name:   "unterminated marker",
			line:   "|LUA|PRINT|never closed",
			wantOK: false,
		},
		{
			name:   "mismatched markers",
			line:   "|LUA|PRINT|mixed|ERROR|LUA|",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, ok := Classify(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if evt.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", evt.Kind, tt.wantKind)
			}
			if evt.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", evt.Message, tt.wantMsg)
			}
		})
	}
}

func TestEventFrame(t *testing.T) {
	tests := []struct {
		evt  Event
		want string
	}{
		{Event{Kind: KindPrint, Message: "hello"}, "data: print|hello\n\n"},
		{Event{Kind: KindError, Message: "bad thing"}, "data: error|bad thing\n\n"},
		{Reset(), "data: reset|Log file reset\n\n"},
		{Event{Kind: KindPrint, Message: "ok\rdata: error|x\r\ny\nz"}, "data: print|ok data: error|x y z\n\n"},
	}
	for _, tt := range tests {
		if got := tt.evt.Frame(); got != tt.want {
			t.Errorf("Frame() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseData(t *testing.T) {
	evt, err := ParseData("error|a|b")
	if err != nil {
		t.Fatalf("ParseData error: %v", err)
	}
	if evt.Kind != KindError || evt.Message != "a|b" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if _, err := ParseData("no separator"); err == nil {
		t.Fatal("expected error for payload without separator")
	}
	if _, err := ParseData("debug|x"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" PRINT "); err != nil || k != KindPrint {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("warn"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
