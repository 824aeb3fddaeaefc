// Package template parses Handlebars templates for the text the
// calculator produces around charts: titles, output file names and the
// acknowledgement returned once a chart is saved.
//
// Example usage:
//
//	tmpl, err := template.Parse("{{#if id}}{{id}}_{{/if}}{{name}}.{{format}}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, err := tmpl.Render(map[string]interface{}{
//	    "name":   "pie_chart",
//	    "format": "png",
//	})
//	// name == "pie_chart.png"
//
// Built-in helpers:
//   - uppercase, lowercase, trim - string case and whitespace
//   - default - Return default value if first arg is empty
//   - number - Shortest decimal rendering of a float
//   - join - Join list elements with separator
//   - len - Get length of list/string
//
// Use triple braces ({{{path}}}) for values that must not be HTML-escaped.
package template
