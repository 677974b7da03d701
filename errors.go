package gridcalc

import (
	"errors"
	"strings"
)

// Errors returned to callers. Reference and evaluation errors inside cell
// formulas never reach the caller; they are rendered as sentinel values.
var (
	ErrParse             = errors.New("malformed formula")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrBadReference      = errors.New("bad cell reference")
	ErrSelfReference     = errors.New("self reference")
	ErrCircularReference = errors.New("circular reference")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// ErrorKind names a formula error that can be displayed in a cell.
type ErrorKind string

const (
	KindBadRef  ErrorKind = "BAD_REF"
	KindSelfRef ErrorKind = "SELF_REF"
	KindCircRef ErrorKind = "CIRC_REF"
	KindDivZero ErrorKind = "DIV_ZERO"
)

// Sentinel returns the value shown in a cell for this kind, e.g. "!(BAD_REF)".
func (k ErrorKind) Sentinel() string {
	return "!(" + string(k) + ")"
}

// Err returns the package error matching this kind.
func (k ErrorKind) Err() error {
	switch k {
	case KindBadRef:
		return ErrBadReference
	case KindSelfRef:
		return ErrSelfReference
	case KindCircRef:
		return ErrCircularReference
	case KindDivZero:
		return ErrDivisionByZero
	}
	return nil
}

// ParseSentinel reports whether value is one of the error sentinels.
func ParseSentinel(value string) (ErrorKind, bool) {
	if !strings.HasPrefix(value, "!(") || !strings.HasSuffix(value, ")") {
		return "", false
	}
	switch k := ErrorKind(value[2 : len(value)-1]); k {
	case KindBadRef, KindSelfRef, KindCircRef, KindDivZero:
		return k, true
	}
	return "", false
}
