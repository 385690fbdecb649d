package easyconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseStats evaluates the buildstats blocks of a record document into a
// single ordered sequence: the initial list literal followed by every append
// expression, in document order. A document without a buildstats block
// yields an empty sequence.
func ParseStats(doc []byte) ([]Entry, error) {
	s := string(doc)
	var entries []Entry

	for i := 0; i < len(s); {
		idx := strings.Index(s[i:], statsVariable)
		if idx < 0 {
			break
		}
		pos := i + idx
		end := pos + len(statsVariable)
		if !identifierBoundary(s, pos, end) {
			i = end
			continue
		}

		rest := skipSpaces(s, end)
		switch {
		case strings.HasPrefix(s[rest:], "="):
			open := strings.IndexByte(s[rest:], '[')
			if open < 0 {
				return nil, fmt.Errorf("buildstats assignment at offset %d has no list literal", pos)
			}
			payload, next, err := extractBalanced(s, rest+open, '[', ']')
			if err != nil {
				return nil, err
			}
			parsed, err := parseEntryList(payload)
			if err != nil {
				return nil, fmt.Errorf("buildstats list at offset %d: %w", pos, err)
			}
			entries = append(entries, parsed...)
			i = next

		case strings.HasPrefix(s[rest:], ".append("):
			payload, next, err := extractBalanced(s, rest+len(".append"), '(', ')')
			if err != nil {
				return nil, err
			}
			parsed, err := parseEntryList(payload)
			if err != nil {
				return nil, fmt.Errorf("buildstats append at offset %d: %w", pos, err)
			}
			entries = append(entries, parsed...)
			i = next

		default:
			i = end
		}
	}

	return entries, nil
}

// identifierBoundary reports whether s[start:end] is a standalone identifier
// rather than part of a longer word.
func identifierBoundary(s string, start, end int) bool {
	if start > 0 && isIdentChar(s[start-1]) {
		return false
	}
	if end < len(s) && isIdentChar(s[end]) {
		return false
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// extractBalanced returns the text between the delimiter at s[open] and its
// matching close, honoring string literals, plus the index just past the
// close.
func extractBalanced(s string, open int, openCh, closeCh byte) (string, int, error) {
	if open >= len(s) || s[open] != openCh {
		return "", 0, fmt.Errorf("expected %q at offset %d", string(openCh), open)
	}
	depth := 0
	inString := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unterminated %q starting at offset %d", string(openCh), open)
}

// parseEntryList decodes comma-separated entry objects while preserving
// field order, which plain json.Unmarshal into a map would lose.
func parseEntryList(payload string) ([]Entry, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader("[" + payload + "]"))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var entries []Entry
	for dec.More() {
		e, err := parseEntry(dec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return entries, nil
}

func parseEntry(dec *json.Decoder) (Entry, error) {
	tok, err := dec.Token()
	if err != nil {
		return Entry{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Entry{}, fmt.Errorf("expected statistics object, got %v", tok)
	}
	var e Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Entry{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Entry{}, fmt.Errorf("expected field name, got %v", keyTok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return Entry{}, err
		}
		e.fields = append(e.fields, Field{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var e Entry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected field name, got %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				e.fields = append(e.fields, Field{Name: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return e, nil
		case '[':
			var vals []any
			for dec.More() {
				v, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return vals, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		return t.Float64()
	default:
		return tok, nil
	}
}
