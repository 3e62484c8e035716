package core

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Frame is one call-stack entry of a captured Stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Stack is a captured call stack. It renders as a multi-line block with
// each frame tab-indented, suitable for logging as a payload element.
type Stack []Frame

// CurrentStack captures the call stack of the current goroutine,
// excluding frames inside the logging runtime.
func CurrentStack() Stack {
	var pcs [64]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	var stack Stack
	for {
		frame, more := frames.Next()
		if !internalFrame(frame.Function) {
			stack = append(stack, Frame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			return stack
		}
	}
}

// String renders the stack with one tab-indented frame per line.
func (s Stack) String() string {
	var b strings.Builder
	b.WriteString("stack trace:")
	for _, f := range s {
		b.WriteString("\n\t")
		b.WriteString(f.Function)
		b.WriteByte('(')
		b.WriteString(filepath.Base(f.File))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.Line))
		b.WriteByte(')')
	}
	return b.String()
}
