package util

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ErrorKind differentiates the error taxonomy of the compiler (spec §7):
// one bucket per phase, so the driver can report a precise, first-failure
// diagnostic without needing recovery.
type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	TypeError
	UnknownSymbol
	UnknownOperation
	CastError
)

var kindNames = [...]string{
	"lex error",
	"parse error",
	"type error",
	"unknown symbol",
	"unknown operation",
	"cast error",
}

// String returns a print friendly name for the ErrorKind.
func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "error"
	}
	return kindNames[k]
}

// CompileError is a single fatal diagnostic with source position attached.
// The compiler does not attempt recovery: the first CompileError raised by
// any phase aborts the pipeline (spec §7).
type CompileError struct {
	Kind ErrorKind
	Row  int
	Col  int
	Msg  string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Row > 0 || e.Col > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", e.Row, e.Col, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// ---------------------
// ----- functions -----
// ---------------------

// NewError returns a CompileError of the given kind at the given position.
func NewError(kind ErrorKind, row, col int, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind: kind,
		Row:  row,
		Col:  col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// IsKind reports whether err is a *CompileError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ce, ok := err.(*CompileError)
	return ok && ce.Kind == kind
}
