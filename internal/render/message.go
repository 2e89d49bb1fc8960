package render

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultLimit is Telegram's maximum message length.
	DefaultLimit = 4096

	// TruncationMarker replaces the tail of a body that did not fit.
	TruncationMarker = "**Truncated message, open on the provider to read more**"

	// separatorSlack covers the newlines inserted between header, body, marker and footer.
	separatorSlack = 10
)

// Message is a rendered notification. Body and Footer may be empty.
//
// When Fence is set, Body is raw code and is wrapped in that fence on render.
// Truncation then cuts the code itself and closes the fence again, so a long
// body never leaves an unterminated code entity behind.
type Message struct {
	Header string
	Body   string
	Footer string
	Fence  Fence
}

// Fence marks a message body as code.
type Fence string

const (
	FenceInline Fence = "`"
	FenceBlock  Fence = "```"
)

func (f Fence) wrap(code string) string {
	switch f {
	case FenceInline:
		return "`" + code + "`"
	case FenceBlock:
		return "```\n" + code + "\n```"
	}
	return code
}

// clean removes what would close the fence early.
func (f Fence) clean(code string) string {
	switch f {
	case FenceInline:
		return strings.ReplaceAll(code, "`", "")
	case FenceBlock:
		return strings.ReplaceAll(code, "`", "'")
	}
	return code
}

// String serializes the message within DefaultLimit.
func (m Message) String() string {
	return m.Render(DefaultLimit)
}

// Render serializes the message within limit runes.
func (m Message) Render(limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	body := m.Fence.clean(m.Body)
	if body == "" {
		if m.Footer == "" {
			return capRunes(m.Header, limit)
		}
		return capRunes(m.Header+"\n"+m.Footer, limit)
	}
	if m.Fence == "" {
		return Truncate(m.Header, body, m.Footer, limit)
	}
	return truncateFenced(m.Header, body, m.Footer, m.Fence, limit)
}

// truncateFenced is Truncate for code bodies. The fence is kept out of the cut
// and counted against the budget; with no room left the block is dropped.
func truncateFenced(header, code, footer string, fence Fence, limit int) string {
	full := header + "\n\n" + fence.wrap(code) + "\n" + footer
	if utf8.RuneCountInString(full) < limit {
		return full
	}

	remaining := limit -
		utf8.RuneCountInString(header) -
		utf8.RuneCountInString(footer) -
		utf8.RuneCountInString(TruncationMarker) -
		utf8.RuneCountInString(fence.wrap("")) -
		separatorSlack

	var body string
	if remaining > 0 {
		body = fence.wrap(headRunes(code, remaining))
	}
	out := header + "\n\n" + body + "\n" + TruncationMarker + "\n" + footer
	return capRunes(out, limit)
}

// Truncate joins header, body and footer as "header\n\nbody\nfooter". When the
// result reaches limit, the body is cut and TruncationMarker inserted before the
// footer. Lengths are counted in runes.
//
// If header and footer alone leave no room, the body is dropped entirely and the
// whole text is capped at limit.
func Truncate(header, body, footer string, limit int) string {
	full := header + "\n\n" + body + "\n" + footer
	if utf8.RuneCountInString(full) < limit {
		return full
	}

	remaining := limit -
		utf8.RuneCountInString(header) -
		utf8.RuneCountInString(footer) -
		utf8.RuneCountInString(TruncationMarker) -
		separatorSlack
	if remaining < 0 {
		remaining = 0
	}

	out := header + "\n\n" + headRunes(body, remaining) + "\n" + TruncationMarker + "\n" + footer
	return capRunes(out, limit)
}

// headRunes returns at most n leading runes of s.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func capRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return headRunes(s, limit)
}
