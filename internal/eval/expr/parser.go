package expr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrParse is wrapped by every compile failure
var ErrParse = errors.New("invalid expression")

// functions are the unary functions the grammar accepts
var functions = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"log":  math.Log,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"abs":  math.Abs,
	"exp":  math.Exp,
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Functions returns the sorted names of the supported functions
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Program is a compiled expression over a fixed list of variables
type Program struct {
	src  string
	vars []string
	root node
}

// Compile parses src. Identifiers other than the supported functions,
// the constants pi and e, and the given variables are rejected.
func Compile(src string, vars ...string) (*Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	slots := make(map[string]int, len(vars))
	for i, v := range vars {
		slots[v] = i
	}

	p := &parser{l: lexer{s: src}, slots: slots}
	p.next()
	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.unexpected()
	}
	return &Program{src: src, vars: append([]string(nil), vars...), root: root}, nil
}

// Constant compiles and evaluates an expression without variables
func Constant(src string) (float64, error) {
	prog, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return prog.Eval(), nil
}

// String returns the source text
func (p *Program) String() string {
	return p.src
}

// Vars returns the declared variables in slot order
func (p *Program) Vars() []string {
	return append([]string(nil), p.vars...)
}

// Eval evaluates the program with values bound positionally to the declared
// variables. Missing values are NaN. Domain violations follow IEEE semantics.
func (p *Program) Eval(values ...float64) float64 {
	if len(values) < len(p.vars) {
		padded := make([]float64, len(p.vars))
		copy(padded, values)
		for i := len(values); i < len(padded); i++ {
			padded[i] = math.NaN()
		}
		values = padded
	}
	return p.root.eval(values)
}

type parser struct {
	l     lexer
	cur   token
	slots map[string]int
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) unexpected() error {
	if p.cur.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	return fmt.Errorf("%w: unexpected %q at offset %d", ErrParse, p.cur.text, p.cur.pos)
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash {
		op := p.cur.text[0]
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeUnary{op: op, x: x}, nil
	}
	return p.parsePower()
}

// parsePower binds tighter than a leading sign, so -x^2 is -(x^2), while the
// exponent may itself be signed: 2^-1.
func (p *parser) parsePower() (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokCaret {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeBinary{op: '^', left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		p.next()
		return nodeNumber{v: v}, nil

	case tokIdent:
		name := p.cur.text
		p.next()
		if p.cur.kind == tokLParen {
			fn, ok := functions[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown function %q", ErrParse, name)
			}
			p.next()
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if p.cur.kind != tokRParen {
				return nil, fmt.Errorf("%w: expected ')' after %s argument", ErrParse, name)
			}
			p.next()
			return nodeCall{name: name, fn: fn, arg: arg}, nil
		}
		if slot, ok := p.slots[name]; ok {
			return nodeVar{name: name, slot: slot}, nil
		}
		if v, ok := constants[name]; ok {
			return nodeNumber{v: v}, nil
		}
		return nil, fmt.Errorf("%w: unknown identifier %q", ErrParse, name)

	case tokLParen:
		p.next()
		ex, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')'", ErrParse)
		}
		p.next()
		return ex, nil

	default:
		return nil, p.unexpected()
	}
}
