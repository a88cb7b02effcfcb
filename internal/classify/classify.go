package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies the type of a stream event.
type Kind string

const (
	KindPrint Kind = "print"
	KindError Kind = "error"
	KindReset Kind = "reset"
)

// ResetMessage is the message carried by every reset event.
const ResetMessage = "Log file reset"

var (
	printPattern = regexp.MustCompile(`\|LUA\|PRINT\|(.*?)\|PRINT\|LUA\|`)
	errorPattern = regexp.MustCompile(`\|LUA\|ERROR\|(.*?)\|ERROR\|LUA\|`)
)

// Event is a classified unit of stream output.
type Event struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Reset returns the event emitted when the followed file shrinks.
func Reset() Event {
	return Event{Kind: KindReset, Message: ResetMessage}
}

// Classify extracts an event from a raw log line. The boolean is false when
// the line carries neither sentinel pair.
func Classify(line string) (Event, bool) {
	if m := printPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: KindPrint, Message: m[1]}, true
	}
	if m := errorPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: KindError, Message: m[1]}, true
	}
	return Event{}, false
}

// Frame renders the event as a server-sent-event data frame.
func (e Event) Frame() string {
	return fmt.Sprintf("data: %s|%s\n\n", e.Kind, frameBreaks.Replace(e.Message))
}

// frameBreaks flattens line breaks that would split a data field.
var frameBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// ParseData decodes the payload of a data frame ("kind|message") back into an
// event. Unknown kinds are rejected.
func ParseData(payload string) (Event, error) {
	kind, message, ok := strings.Cut(payload, "|")
	if !ok {
		return Event{}, fmt.Errorf("malformed event payload %q", payload)
	}
	switch Kind(kind) {
	case KindPrint, KindError, KindReset:
		return Event{Kind: Kind(kind), Message: message}, nil
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", kind)
	}
}

// ParseKind normalizes a user-supplied kind filter.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindPrint, KindError, KindReset:
		return k, nil
	default:
		return "", fmt.Errorf("unknown event kind %q (want print, error or reset)", value)
	}
}
