package template

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
)

// raymond keeps helpers in a process-wide table and panics on duplicates
var registerOnce sync.Once

// Template is a parsed Handlebars template, safe for concurrent use
type Template struct {
	source string
	tmpl   *raymond.Template
}

// Parse parses source with the calculator helpers available
func Parse(source string) (*Template, error) {
	registerOnce.Do(registerHelpers)

	tmpl, err := raymond.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &Template{source: source, tmpl: tmpl}, nil
}

// MustParse is like Parse but panics on error. It is meant for templates
// fixed at compile time.
func MustParse(source string) *Template {
	t, err := Parse(source)
	if err != nil {
		panic(fmt.Sprintf("template %q: %v", source, err))
	}
	return t
}

// Render executes the template with data
func (t *Template) Render(data interface{}) (string, error) {
	result, err := t.tmpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return result, nil
}

// String returns the template source
func (t *Template) String() string {
	return t.source
}

// registerHelpers registers custom Handlebars helpers
func registerHelpers() {
	raymond.RegisterHelper("uppercase", func(str string) string {
		return strings.ToUpper(str)
	})

	raymond.RegisterHelper("lowercase", func(str string) string {
		return strings.ToLower(str)
	})

	raymond.RegisterHelper("trim", func(str string) string {
		return strings.TrimSpace(str)
	})

	// default helper - return default value if first arg is empty
	raymond.RegisterHelper("default", func(value interface{}, defaultValue interface{}) interface{} {
		if value == nil || value == "" {
			return defaultValue
		}
		return value
	})

	// number helper - shortest decimal form of a float
	raymond.RegisterHelper("number", func(value interface{}) string {
		switch v := value.(type) {
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64)
		case int:
			return strconv.Itoa(v)
		default:
			return fmt.Sprint(v)
		}
	})

	// join helper - join list elements with separator
	raymond.RegisterHelper("join", func(value interface{}, sep string) string {
		switch arr := value.(type) {
		case []string:
			return strings.Join(arr, sep)
		case []float64:
			strs := make([]string, len(arr))
			for i, v := range arr {
				strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			return strings.Join(strs, sep)
		case []interface{}:
			strs := make([]string, len(arr))
			for i, v := range arr {
				strs[i] = fmt.Sprint(v)
			}
			return strings.Join(strs, sep)
		default:
			return fmt.Sprint(value)
		}
	})

	// len helper - get length of list/string
	raymond.RegisterHelper("len", func(value interface{}) int {
		switch v := value.(type) {
		case string:
			return len(v)
		case []string:
			return len(v)
		case []float64:
			return len(v)
		case []interface{}:
			return len(v)
		default:
			return 0
		}
	})
}
