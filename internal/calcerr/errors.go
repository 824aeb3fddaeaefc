package calcerr

import (
	"errors"
	"fmt"
)

// Kind classifies an expected failure
type Kind int

const (
	// KindUnexpected is returned by KindOf for errors outside the taxonomy
	KindUnexpected Kind = iota
	KindFormat
	KindDomain
	KindRange
	KindDivisionByZero
	KindUnrecognized
	KindRender
)

var kindNames = map[Kind]string{
	KindUnexpected:     "UnexpectedError",
	KindFormat:         "FormatError",
	KindDomain:         "DomainError",
	KindRange:          "RangeError",
	KindDivisionByZero: "DivisionByZeroError",
	KindUnrecognized:   "UnrecognizedOperationError",
	KindRender:         "RenderError",
}

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is checks.
var (
	ErrFormat         = &Error{Kind: KindFormat}
	ErrDomain         = &Error{Kind: KindDomain}
	ErrRange          = &Error{Kind: KindRange}
	ErrDivisionByZero = &Error{Kind: KindDivisionByZero}
	ErrUnrecognized   = &Error{Kind: KindUnrecognized}
	ErrRender         = &Error{Kind: KindRender}
)

// Error is a classified calculator failure
type Error struct {
	Kind Kind
	// Op is the operator token the failure belongs to, empty when unknown
	Op  string
	Msg string
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, which makes the sentinels work
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a classified error
func New(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WithOp returns err with its operator token set when it is an *Error without one.
// Other errors are returned unchanged.
func WithOp(err error, op string) error {
	var ce *Error
	if !errors.As(err, &ce) || ce.Op != "" {
		return err
	}
	cp := *ce
	cp.Op = op
	return &cp
}

// KindOf reports the kind of err, KindUnexpected when it is not classified
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnexpected
}

// IsExpected reports whether err belongs to the taxonomy
func IsExpected(err error) bool {
	return err != nil && KindOf(err) != KindUnexpected
}
