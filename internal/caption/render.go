package caption

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is wrapped by errors for placeholders outside the vocabulary.
	ErrUnknownField = errors.New("unknown caption placeholder")
	// ErrMalformedTemplate reports unbalanced or empty braces.
	ErrMalformedTemplate = errors.New("malformed caption template")
)

// UnknownFieldError names the placeholder that could not be resolved.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%v: {%s}", ErrUnknownField, e.Name)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// Render substitutes {field} placeholders in tmpl with values. Doubled braces
// produce literal braces. Anything after ':' or '!' inside a placeholder is
// ignored.
func Render(tmpl string, values map[string]string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		switch c := tmpl[i]; c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				sb.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			field := tmpl[i+1 : i+1+end]
			if strings.ContainsRune(field, '{') {
				return "", fmt.Errorf("%w: nested '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := field
			if j := strings.IndexAny(field, ":!"); j >= 0 {
				name = field[:j]
			}
			if name == "" {
				return "", fmt.Errorf("%w: empty placeholder at offset %d", ErrMalformedTemplate, i)
			}
			key := name
			if alias, ok := aliases[name]; ok {
				key = alias
			}
			v, ok := values[key]
			if !ok {
				return "", &UnknownFieldError{Name: name}
			}
			sb.WriteString(v)
			i += end + 2
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				sb.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), nil
}

// Validate checks that tmpl only references known placeholders and has
// balanced braces.
func Validate(tmpl string) error {
	_, err := Render(tmpl, Metadata{}.Values())
	return err
}

// Usage lists the placeholders for the /set_cap help text.
func Usage() string {
	var sb strings.Builder
	sb.WriteString("Usage: /set_cap Your Caption\n\nAvailable variables:\n")
	for _, f := range Fields {
		fmt.Fprintf(&sb, "• {%s} - %s\n", f.Name, f.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}
