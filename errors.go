package sindex

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned by Open on platforms where the SINDEX DLL
// cannot be loaded.
var ErrUnavailable = errors.New("sindex: native library not available on this platform")

// ErrNotFound is returned by Open when the DLL file does not exist at the
// resolved path.
var ErrNotFound = errors.New("sindex: sindex64.dll not found")

// Error codes returned by the DLL. noAnswer doubles as the end-of-list
// marker for species and curve iteration.
const (
	codeLowSite     = -1
	codeLowBHAge    = -2
	codeHighBHAge   = -3
	noAnswer        = -4
	codeBadCurve    = -5
	codeBadClass    = -6
	codeBadFIZ      = -7
	codeBadSpecies  = -8
	codeTotalWithGI = -9
	codeNoConvert   = -10
	codeBadAgeType  = -11
	codeBadEstab    = -12
)

var errMessages = map[int]string{
	codeLowSite:     "site index <= 1.3",
	codeLowBHAge:    "bhage < 0.5 (for GI)",
	codeHighBHAge:   "bhage > GI range",
	noAnswer:        "no answer was generated",
	codeBadCurve:    "input curve is not a valid curve index",
	codeBadClass:    "site class is unknown",
	codeBadFIZ:      "FIZ code is unknown",
	codeBadSpecies:  "species code is unknown",
	codeTotalWithGI: "total age and GI curve",
	codeNoConvert:   "source species index is not valid, or no conversion",
	codeBadAgeType:  "unknown age type",
	codeBadEstab:    "input parameter is not a valid establishment type",
}

// Error is a negative status code returned by a SINDEX entry point, together
// with the operation that produced it.
type Error struct {
	Op   string
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("sindex: %s: %s (code %d)", e.Op, errMessage(e.Code), e.Code)
}

// errMessage returns the DLL's documented description for a status code.
func errMessage(code int) string {
	if msg, ok := errMessages[code]; ok {
		return msg
	}
	return "unknown issue"
}

// dllError wraps a negative return value in an *Error.
func dllError(op string, code int) error {
	return &Error{Op: op, Code: code}
}
