package formatter

import (
	"bytes"
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// stackTracer is implemented by errors created with
// github.com/pkg/errors, exposing the stack captured at creation.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// appendErrorChain renders an error and every chained cause. Each cause
// is introduced by "Cause:"; errors carrying a captured stack render
// their frames tab-indented, one per line. Callers must not construct
// cyclic cause chains.
func appendErrorChain(buf *bytes.Buffer, err error) {
	for first := true; err != nil; err = stderrors.Unwrap(err) {
		if !first {
			buf.WriteString("Cause:")
		}
		buf.WriteString(err.Error())
		buf.WriteByte('\n')
		if st, ok := err.(stackTracer); ok {
			for _, frame := range st.StackTrace() {
				fmt.Fprintf(buf, "\t%v\n", frame)
			}
		}
		first = false
	}
}
