// Package tail follows a single growing log file one complete line at a time.
//
// A Follower owns its file handle and read cursor; nothing is shared between
// followers, so every stream connection opens its own. Each call to Poll does
// one step of the follow loop: it detects truncation (the file shrank below
// the read position), then tries to read one line ended by "\n", "\r" or
// "\r\n". Partial lines stay buffered until their terminator arrives and never
// move the cursor.
//
// Lines are decoded best-effort: a UTF-8 byte order mark is stripped and
// invalid byte sequences become U+FFFD. Lines longer than MaxLineBytes are
// skipped whole.
//
// The package never writes to the file and never sleeps; pacing belongs to the
// caller (see internal/stream).
package tail
