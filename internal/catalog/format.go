package catalog

import (
	"regexp"
	"strings"
)

// Formatting is the text style detected from an existing catalog file.
type Formatting struct {
	Indent           string // one indentation unit: a tab or N spaces
	EOL              string // "\n" or "\r\n"
	SpaceBeforeColon bool   // `"key" : value` instead of `"key": value`
	TrailingNewline  bool
	// EmptyObjectBreak writes empty objects as "{", a blank line and "}".
	EmptyObjectBreak bool
}

// DefaultFormatting is the style used by Xcode when writing string catalogs.
func DefaultFormatting() Formatting {
	return Formatting{
		Indent:           "  ",
		EOL:              "\n",
		SpaceBeforeColon: true,
		EmptyObjectBreak: true,
	}
}

var (
	indentRe      = regexp.MustCompile(`\n([ \t]+)\S`)
	emptyObjectRe = regexp.MustCompile(`\{[ \t]*\r?\n[ \t]*\r?\n[ \t]*\}`)
	compactObjRe  = regexp.MustCompile(`\{[ \t]*\}`)
)

// DetectFormatting inspects text and returns its formatting conventions.
// Anything that cannot be detected keeps the DefaultFormatting value.
func DetectFormatting(text string) Formatting {
	f := DefaultFormatting()
	if text == "" {
		return f
	}
	if strings.Contains(text, "\r\n") {
		f.EOL = "\r\n"
	}
	if m := indentRe.FindStringSubmatch(text); m != nil {
		if strings.HasPrefix(m[1], "\t") {
			f.Indent = "\t"
		} else {
			f.Indent = m[1]
		}
	}
	if before, ok := colonStyle(text); ok {
		f.SpaceBeforeColon = before
	}
	f.TrailingNewline = strings.HasSuffix(text, "\n")
	switch {
	case emptyObjectRe.MatchString(text):
		f.EmptyObjectBreak = true
	case compactObjRe.MatchString(text):
		f.EmptyObjectBreak = false
	}
	return f
}

func (f Formatting) colon() string {
	if f.SpaceBeforeColon {
		return " : "
	}
	return ": "
}

// withTrailingNewline applies the trailing newline convention to text.
func (f Formatting) withTrailingNewline(text string) string {
	text = strings.TrimRight(text, "\r\n")
	if f.TrailingNewline {
		return text + f.EOL
	}
	return text
}

// colonStyle reports whether the first member separator in text is preceded
// by whitespace. ok is false when text has no object members.
func colonStyle(text string) (spaceBefore, ok bool) {
	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ':':
			return i > 0 && (text[i-1] == ' ' || text[i-1] == '\t'), true
		}
	}
	return false, false
}

// normalizeColons rewrites the whitespace around every member separator
// outside string literals to the given style: the key is followed by either
// " : " or ": ". Separators already in the requested style are untouched,
// so a consistently formatted text comes back unchanged.
func normalizeColons(text string, f Formatting) string {
	var b strings.Builder
	last := 0
	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			continue
		}
		if c != ':' {
			continue
		}

		start := i
		for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
			start--
		}
		end := i + 1
		for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
			end++
		}
		// Leave separators followed by a line break alone.
		if end < len(text) && (text[end] == '\n' || text[end] == '\r') {
			continue
		}
		want := f.colon()
		if text[start:end] == want {
			continue
		}
		if b.Len() == 0 {
			b.Grow(len(text) + 16)
		}
		b.WriteString(text[last:start])
		b.WriteString(want)
		last = end
		i = end - 1
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}
