package notify

import (
	"fmt"
	"strconv"
)

// Render substitutes `{{ key }}` placeholders (whitespace-tolerant) in the
// template's subject and content with the string form of the matching value
// in data. Placeholders without a matching key stay verbatim in the output;
// lenient substitution is the documented contract, callers wanting strictness
// run Template.Lint first.
func Render(tmpl *Template, data map[string]any) Content {
	return Content{
		Subject: substitute(tmpl.Subject, data),
		Body:    substitute(tmpl.Content, data),
	}
}

func substitute(s string, data map[string]any) string {
	if s == "" || len(data) == 0 {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := data[name]
		if !ok {
			return match
		}
		return stringify(value)
	})
}

// stringify renders values the way they read in a message: no quotes around
// strings, no scientific notation for round floats.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
