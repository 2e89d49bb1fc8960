package render

import "strings"

var escaper = strings.NewReplacer(
	"[", `\[`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
)

// Escape backslash-prefixes the characters Telegram's legacy Markdown treats as
// markup. Apply it to every piece of untrusted text before composing a message.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return escaper.Replace(s)
}

// Link renders [title](url). Without a url only the escaped title is returned.
// The url is emitted verbatim; providers hand us well-formed http(s) links.
func Link(url, title string) string {
	if url == "" {
		return Escape(title)
	}
	return "[" + Escape(title) + "](" + url + ")"
}

// Code renders s as inline code. Backticks inside s would close the span early,
// so they are dropped.
func Code(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "") + "`"
}

// Plural returns word with an "s" appended unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// ShortSHA returns the first seven characters of a commit hash.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
