// Package expand renders the placeholder templates used for target paths
// and tag values.
//
// Templates use brace placeholders: {title} substitutes an attribute's
// string value, {scheduled_start:%Y-%m-%d} renders a datetime attribute
// with a strftime format, and doubled braces escape literals. Referencing
// an attribute that is not defined is an error so a malformed template
// fails the affected broadcast instead of silently producing wrong names.
package expand

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Values maps attribute names to template values. Entries are strings or
// time.Time; datetimes accept a strftime format specifier.
type Values map[string]any

// ErrUnknownAttribute marks references to attributes absent from the value map.
var ErrUnknownAttribute = errors.New("unknown attribute")

// defaultTimeLayout renders datetimes that carry no format specifier.
const defaultTimeLayout = "2006-01-02 15:04:05"

// Expand substitutes every placeholder in template with its value.
func Expand(template string, values Values) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	runes := []rune(template)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := indexRune(runes, i+1, '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			rendered, err := renderPlaceholder(string(runes[i+1:end]), values)
			if err != nil {
				return "", err
			}
			b.WriteString(rendered)
			i = end
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("stray '}' at offset %d", i)
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func renderPlaceholder(body string, values Values) (string, error) {
	name := body
	format := ""
	hasFormat := false
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		name = body[:idx]
		format = body[idx+1:]
		hasFormat = true
	}
	if name == "" {
		return "", errors.New("empty placeholder name")
	}

	value, ok := values[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}

	switch v := value.(type) {
	case time.Time:
		if !hasFormat || format == "" {
			return v.Format(defaultTimeLayout), nil
		}
		return strftime.Format(format, v), nil
	case string:
		if hasFormat {
			return "", fmt.Errorf("attribute %q does not accept a format specifier", name)
		}
		return v, nil
	default:
		if hasFormat {
			return "", fmt.Errorf("attribute %q does not accept a format specifier", name)
		}
		return fmt.Sprint(v), nil
	}
}

func indexRune(runes []rune, from int, want rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == want {
			return i
		}
	}
	return -1
}
