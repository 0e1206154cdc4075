package transcript

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// The backend injects control messages into the conversation disguised as
// user turns: heartbeat probes, login notices, and system alerts such as
// the history-compaction summary. This file recognizes and unwraps them.

var (
	// Boilerplate the backend prefixes to compaction alerts.
	alertPreambleRe = regexp.MustCompile(`(?m)^Note: prior messages.*$`)
	fencedJSONRe    = regexp.MustCompile("(?s)```json\\s*(.*?)```")
)

// envelopeType returns the "type" field when the text is a JSON envelope.
func envelopeType(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "{") || !gjson.Valid(t) {
		return ""
	}
	return gjson.Get(t, "type").String()
}

// IsHousekeeping reports whether a user-turn text is a machine-generated
// probe that should never render: heartbeats and login events.
func IsHousekeeping(text string) bool {
	switch envelopeType(text) {
	case "heartbeat", "login":
		return true
	}
	return false
}

// UnwrapUserText strips the {"type":"user_message","message":...} envelope
// the backend wraps real user turns in. Plain text passes through.
func UnwrapUserText(text string) string {
	if envelopeType(text) == "user_message" {
		if msg := gjson.Get(strings.TrimSpace(text), "message"); msg.Exists() {
			return msg.String()
		}
	}
	return text
}

// ExtractAlert recognizes a system-alert envelope and returns its cleaned
// message. The embedded message may carry a second JSON document inside a
// fenced ```json block one level deeper; if so, that document's message
// field wins. Any parse failure returns ok=false and the caller keeps the
// text as an ordinary user turn.
func ExtractAlert(text string) (string, bool) {
	if envelopeType(text) != "system_alert" {
		return "", false
	}
	msg := gjson.Get(strings.TrimSpace(text), "message")
	if !msg.Exists() {
		return "", false
	}
	return cleanAlertMessage(msg.String()), true
}

func cleanAlertMessage(msg string) string {
	if m := fencedJSONRe.FindStringSubmatch(msg); m != nil {
		inner := strings.TrimSpace(m[1])
		if gjson.Valid(inner) {
			if embedded := gjson.Get(inner, "message"); embedded.Exists() {
				msg = embedded.String()
			}
		}
	}
	msg = alertPreambleRe.ReplaceAllString(msg, "")
	return strings.TrimSpace(msg)
}
