package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

var (
	ErrPathNotFound = errors.New("catalog: path not found")
	ErrInvalidText  = errors.New("catalog: invalid text")
)

// ApplyChange returns text with the member at path set to value, or removed
// when value is nil. Only the bytes of that member (and the separator next
// to it on insert or delete) change; the rest of text is kept as is apart
// from colon spacing, which is normalized to f afterwards.
//
// value may be a *domain.StringEntry, a *domain.LocalizationRecord, a string,
// a bool, a []string or any value encoding/json can marshal.
func ApplyChange(text string, path []string, value any, f Formatting) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("apply change: empty path: %w", ErrPathNotFound)
	}
	if !gjson.Valid(text) {
		return "", ErrInvalidText
	}

	parent := gjson.Parse(text)
	if !parent.IsObject() {
		return "", fmt.Errorf("apply change: root is not an object: %w", ErrPathNotFound)
	}
	for i, comp := range path[:len(path)-1] {
		child, ok := findMember(parent, comp)
		if !ok || !child.value.IsObject() {
			return "", fmt.Errorf("apply change %q: %w", strings.Join(path[:i+1], "."), ErrPathNotFound)
		}
		parent = child.value
	}

	key := path[len(path)-1]
	existing, found := findMember(parent, key)

	var (
		out string
		err error
	)
	switch {
	case value == nil && !found:
		return text, nil
	case value == nil:
		out = deleteMember(text, parent, existing, f)
	case found:
		out, err = replaceMember(text, path, existing, value, f)
	default:
		out, err = insertMember(text, parent, key, value, f)
	}
	if err != nil {
		return "", err
	}
	return normalizeColons(out, f), nil
}

// ApplyEntry updates strings/<key> of text to entry. Members that already
// hold the wanted value are left untouched, so an edit to one locale or
// field rewrites only that member. A nil entry removes the key.
func ApplyEntry(text, key string, entry *domain.StringEntry, f Formatting) (string, error) {
	path := []string{"strings", key}
	if entry == nil {
		return ApplyChange(text, path, nil, f)
	}
	if !gjson.Valid(text) {
		return "", ErrInvalidText
	}
	cur, ok := lookup(text, path)
	if !ok || !cur.IsObject() {
		return ApplyChange(text, path, entry, f)
	}
	out, _, err := applyObject(text, path, cur, entryObject(entry), f)
	return out, err
}

// applyObject makes the object cur at path equal to want one member at a
// time. It reports whether text changed.
func applyObject(text string, path []string, cur gjson.Result, want *jsonObject, f Formatting) (string, bool, error) {
	var (
		stale   bool
		changed bool
		err     error
	)
	for _, m := range members(cur) {
		if want.has(m.key) {
			continue
		}
		if text, err = ApplyChange(text, childPath(path, m.key), nil, f); err != nil {
			return "", false, err
		}
		stale, changed = true, true
	}

	for _, m := range want.members {
		if stale {
			res, ok := lookup(text, path)
			if !ok || !res.IsObject() {
				return "", false, fmt.Errorf("apply %q: %w", strings.Join(path, "."), ErrPathNotFound)
			}
			cur, stale = res, false
		}
		sub := childPath(path, m.key)
		child, found := findMember(cur, m.key)
		obj, isObj := m.value.(*jsonObject)

		switch {
		case !found && want.fields != nil && !slices.IsSorted(want.fields):
			// Inserting by key order would not match the layout of want.
			out, err := ApplyChange(text, path, want, f)
			return out, err == nil, err
		case !found:
			text, err = ApplyChange(text, sub, m.value, f)
			stale = true
		case isObj && child.value.IsObject():
			text, stale, err = applyObject(text, sub, child.value, obj, f)
		case sameValue(m.value, child.value, f):
			continue
		default:
			text, err = ApplyChange(text, sub, m.value, f)
			stale = true
		}
		if err != nil {
			return "", false, err
		}
		changed = changed || stale
	}
	return text, changed, nil
}

func childPath(path []string, key string) []string {
	return append(slices.Clip(path), key)
}

// lookup returns the value at path in text.
func lookup(text string, path []string) (gjson.Result, bool) {
	cur := gjson.Parse(text)
	for _, comp := range path {
		if !cur.IsObject() {
			return gjson.Result{}, false
		}
		m, ok := findMember(cur, comp)
		if !ok {
			return gjson.Result{}, false
		}
		cur = m.value
	}
	return cur, true
}

// sameValue reports whether v encodes to the same JSON as cur, ignoring
// insignificant whitespace.
func sameValue(v any, cur gjson.Result, f Formatting) bool {
	raw, err := encodeValue(v, cur, "", f)
	if err != nil {
		return false
	}
	return equalJSON([]byte(raw), []byte(cur.Raw))
}

// located is an object member with absolute offsets into the text.
type located struct {
	key      string
	keyIndex int
	value    gjson.Result
}

func (l located) end() int {
	return l.value.Index + len(l.value.Raw)
}

func members(obj gjson.Result) []located {
	var out []located
	obj.ForEach(func(k, v gjson.Result) bool {
		out = append(out, located{key: k.Str, keyIndex: k.Index, value: v})
		return true
	})
	return out
}

func findMember(obj gjson.Result, key string) (located, bool) {
	var (
		res   located
		found bool
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			res = located{key: k.Str, keyIndex: k.Index, value: v}
			found = true
			return false
		}
		return true
	})
	return res, found
}

// objectBounds returns the offsets of the opening and closing braces of obj.
// The root result of gjson.Parse extends to the end of the text, so trailing
// whitespace is trimmed before looking for the brace.
func objectBounds(obj gjson.Result) (open, closing int) {
	raw := strings.TrimRight(obj.Raw, " \t\r\n")
	return obj.Index, obj.Index + len(raw) - 1
}

// lineIndent returns the whitespace that starts the line containing pos.
// ok is false when something other than whitespace precedes pos on that line.
func lineIndent(text string, pos int) (string, bool) {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	ws := text[start:pos]
	if strings.TrimLeft(ws, " \t") != "" {
		return "", false
	}
	return ws, true
}

// leadingIndent returns the whitespace at the start of the line containing pos.
func leadingIndent(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := start
	for end < pos && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}

func encodeValue(value any, ref gjson.Result, prefix string, f Formatting) (string, error) {
	n, err := toNode(value)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	e := &encoder{f: f}
	e.node(n, ref, prefix)
	return e.buf.String(), nil
}

func memberIndent(text string, m located, depth int, f Formatting) string {
	if ws, ok := lineIndent(text, m.keyIndex); ok {
		return ws
	}
	return strings.Repeat(f.Indent, depth)
}

func replaceMember(text string, path []string, m located, value any, f Formatting) (string, error) {
	prefix := memberIndent(text, m, len(path), f)
	raw, err := encodeValue(value, m.value, prefix, f)
	if err != nil {
		return "", err
	}

	p, ok := setPath(path)
	if !ok {
		return text[:m.value.Index] + raw + text[m.end():], nil
	}
	out, err := sjson.SetRaw(text, p, raw)
	if err != nil {
		return "", fmt.Errorf("apply change %q: %w", strings.Join(path, "."), err)
	}
	if !strings.HasPrefix(out, text[:m.value.Index]) || !strings.HasSuffix(out, text[m.end():]) {
		return "", fmt.Errorf("apply change %q: value resolved at another offset: %w",
			strings.Join(path, "."), ErrPathNotFound)
	}
	return out, nil
}

// setPath escapes path for sjson. Keys that are empty or start with ':'
// have no sjson form; ok is false for those and the caller splices the
// value at the located offsets instead.
func setPath(path []string) (string, bool) {
	escaped := make([]string, len(path))
	for i, p := range path {
		if p == "" || p[0] == ':' {
			return "", false
		}
		escaped[i] = gjson.Escape(p)
	}
	return strings.Join(escaped, "."), true
}

func insertMember(text string, parent gjson.Result, key string, value any, f Formatting) (string, error) {
	open, closing := objectBounds(parent)
	parentIndent := leadingIndent(text, open)
	siblings := members(parent)

	indent := parentIndent + f.Indent
	if len(siblings) > 0 {
		if ws, ok := lineIndent(text, siblings[0].keyIndex); ok {
			indent = ws
		}
	}
	raw, err := encodeValue(value, gjson.Result{}, indent, f)
	if err != nil {
		return "", err
	}
	entry := quote(key) + f.colon() + raw

	if len(siblings) == 0 {
		return text[:open+1] + f.EOL + indent + entry + f.EOL + parentIndent + text[closing:], nil
	}
	for _, s := range siblings {
		if key < s.key {
			return text[:s.keyIndex] + entry + "," + f.EOL + indent + text[s.keyIndex:], nil
		}
	}
	last := siblings[len(siblings)-1]
	return text[:last.end()] + "," + f.EOL + indent + entry + text[last.end():], nil
}

func deleteMember(text string, parent gjson.Result, m located, f Formatting) string {
	prev := prevToken(text, m.keyIndex)
	if prev >= 0 && text[prev] == ',' {
		return text[:prev] + text[m.end():]
	}

	next := nextToken(text, m.end())
	if next < len(text) && text[next] == ',' {
		return text[:m.keyIndex] + text[nextToken(text, next+1):]
	}

	// Only member: leave an empty object behind.
	open, closing := objectBounds(parent)
	body := ""
	if f.EmptyObjectBreak {
		body = f.EOL + f.EOL + leadingIndent(text, open)
	}
	return text[:open+1] + body + text[closing:]
}

func prevToken(text string, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if !isSpace(text[i]) {
			return i
		}
	}
	return -1
}

func nextToken(text string, pos int) int {
	for i := pos; i < len(text); i++ {
		if !isSpace(text[i]) {
			return i
		}
	}
	return len(text)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
