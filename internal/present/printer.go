package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/engine"
	"github.com/aescanero/scicalc/internal/history"
)

// Printer writes calculator output, styled unless plain is set
type Printer struct {
	w     io.Writer
	plain bool
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, plain: plain}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *Printer) token(tok string) string {
	if p.plain {
		return fmt.Sprintf("%-12s", tok)
	}
	return Styles.Token.Render(tok)
}

// Banner prints the interactive greeting
func (p *Printer) Banner() {
	fmt.Fprintln(p.w, p.style(Styles.Title, "=== Scientific Calculator ==="))
	fmt.Fprintln(p.w, p.style(Styles.Muted, "Type an operation, or 'help', 'ops', 'history', 'quit'."))
}

// Goodbye prints the closing message
func (p *Printer) Goodbye() {
	fmt.Fprintln(p.w, p.style(Styles.Muted, "Thank you for using the scientific calculator!"))
}

// Result prints a successful evaluation of raw
func (p *Printer) Result(raw string, res engine.Result) {
	fmt.Fprintln(p.w, FormatResult(raw, res, p.style))
}

// Error prints a failed evaluation, distinguishing unexpected failures
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, FormatError(err, p.style))
}

// Help prints every operator with an example, grouped by category
func (p *Printer) Help() {
	var b strings.Builder
	var current engine.Category
	for _, sig := range engine.Signatures() {
		if sig.Category != current {
			current = sig.Category
			fmt.Fprintf(&b, "\n%s\n", p.style(Styles.Section, categoryTitle(current)))
		}
		fmt.Fprintf(&b, "  %s%s\n", p.token(sig.Token), sig.Summary)
		fmt.Fprintf(&b, "  %s%s\n", p.token(""), p.style(Styles.Muted, "e.g. "+sig.Usage))
	}
	fmt.Fprint(p.w, b.String())
}

// Operators prints the operator registry as a compact table
func (p *Printer) Operators() {
	var b strings.Builder
	for _, sig := range engine.Signatures() {
		line := fmt.Sprintf("%-12s %-12s %-14s %s", sig.Token, sig.Shape, sig.Category, sig.Usage)
		fmt.Fprintln(&b, line)
	}
	out := strings.TrimRight(b.String(), "\n")
	if p.plain {
		fmt.Fprintln(p.w, out)
		return
	}
	fmt.Fprintln(p.w, Styles.Box.Render(out))
}

// History prints entries, newest first
func (p *Printer) History(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, p.style(Styles.Muted, "No history yet."))
		return
	}
	for _, e := range entries {
		stamp := p.style(Styles.Muted, e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		result := e.Result
		if e.Outcome != history.OutcomeOK {
			result = p.style(Styles.Error, e.Outcome+": "+e.Result)
		}
		fmt.Fprintf(p.w, "%s  %s = %s\n", stamp, e.Operation, result)
	}
}

// FormatResult renders "Result of <raw> = <value>". Regression results list
// their fields on separate lines.
func FormatResult(raw string, res engine.Result, style func(lipgloss.Style, string) string) string {
	if style == nil {
		style = plainStyle
	}
	raw = strings.TrimSpace(raw)

	if res.Kind == engine.ResultRegression {
		var b strings.Builder
		fmt.Fprintf(&b, "Result of %s =", raw)
		for _, f := range res.Fields() {
			fmt.Fprintf(&b, "\n  %-10s %s", f.Name, style(Styles.Result, engine.FormatNumber(f.Value)))
		}
		return b.String()
	}
	return fmt.Sprintf("Result of %s = %s", raw, style(Styles.Result, res.String()))
}

// FormatError renders an expected failure as "Error: ..." and anything
// else as "Unexpected error: ...".
func FormatError(err error, style func(lipgloss.Style, string) string) string {
	if style == nil {
		style = plainStyle
	}
	if calcerr.IsExpected(err) {
		return style(Styles.Error, fmt.Sprintf("Error (%s): %v", calcerr.KindOf(err), err))
	}
	return style(Styles.Unexpected, fmt.Sprintf("Unexpected error: %v", err))
}

func plainStyle(_ lipgloss.Style, text string) string {
	return text
}

func categoryTitle(c engine.Category) string {
	switch c {
	case engine.CategoryArithmetic:
		return "Basic operations"
	case engine.CategoryFunction:
		return "Functions"
	case engine.CategoryStatistics:
		return "Statistics"
	case engine.CategoryVisualization:
		return "Visualization"
	default:
		return string(c)
	}
}
