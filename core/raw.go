package core

// RawFlag is the type of the Raw sentinel.
type RawFlag struct{}

// Raw, when passed as the first payload element of a log call, marks the
// remainder of the call as literal output: no preface fields, no payload
// separator, and no trailing line terminator beyond what the payload
// itself carries. Callers use it together with a trailing carriage
// return to implement same-line updates such as progress bars.
var Raw RawFlag

// String keeps the sentinel from leaking control characters if it is
// ever rendered by mistake.
func (RawFlag) String() string { return "" }
