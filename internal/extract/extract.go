// Package extract pulls the reply text out of a chat-completion response body.
package extract

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ContentPath is the gjson path of the first choice's message content.
const ContentPath = "choices.0.message.content"

const contentMarker = `"content":`

// Func maps a raw response body to reply text. It never fails; a miss is "".
type Func func(body string) string

// JSON looks up choices[0].message.content structurally. Only a string value
// is consumed; any other content type yields "". Escape
// sequences inside the content are decoded.
func JSON(body string) string {
	res := gjson.Get(body, ContentPath)
	if res.Type != gjson.String {
		return ""
	}
	return res.Str
}

// Scan is the literal text scan: find `"content":`, then return whatever sits
// between the next two double quotes. Escapes are not decoded and an escaped
// quote inside the content ends the value early.
func Scan(body string) string {
	idx := strings.Index(body, contentMarker)
	if idx == -1 {
		return ""
	}
	rest := body[idx+len(contentMarker):]

	open := strings.IndexByte(rest, '"')
	if open == -1 {
		return ""
	}
	rest = rest[open+1:]

	end := strings.IndexByte(rest, '"')
	if end == -1 {
		return ""
	}
	return rest[:end]
}

// ForMode returns the extractor for mode ("json" or "scan"). Unknown modes
// fall back to JSON.
func ForMode(mode string) Func {
	if strings.EqualFold(strings.TrimSpace(mode), "scan") {
		return Scan
	}
	return JSON
}
