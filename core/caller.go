package core

import (
	"bytes"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// CallerInfo describes the call site of a log entry.
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// modulePath is the import prefix of this module, used to recognize and
// skip the logging runtime's own frames when locating a call site.
var modulePath = func() string {
	type probe struct{}
	pkg := reflect.TypeOf(probe{}).PkgPath()
	return strings.TrimSuffix(pkg, "/core")
}()

// internalFrame reports whether the function belongs to one of this
// module's packages.
func internalFrame(function string) bool {
	if !strings.HasPrefix(function, modulePath) {
		return false
	}
	rest := function[len(modulePath):]
	return rest == "" || rest[0] == '/' || rest[0] == '.'
}

// CallingSite returns the first stack frame outside the logging runtime,
// so that convenience entry points at any depth report the real caller.
// If every frame is internal, the outermost examined frame is returned.
func CallingSite() CallerInfo {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return CallerInfo{}
	}
	frames := runtime.CallersFrames(pcs[:n])
	var last CallerInfo
	for {
		frame, more := frames.Next()
		last = CallerInfo{
			File:      frame.File,
			ShortFile: filepath.Base(frame.File),
			Line:      frame.Line,
			Function:  frame.Function,
			Defined:   true,
		}
		if !internalFrame(frame.Function) {
			return last
		}
		if !more {
			return last
		}
	}
}

// PackagePath returns the import path of the package containing the
// call site, or the empty string if the site is undefined.
func (c CallerInfo) PackagePath() string {
	if !c.Defined {
		return ""
	}
	fn := c.Function
	// The package path ends at the first dot after the last slash,
	// e.g. "example.com/app/store.(*Repo).Load".
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}

// String renders the call site as "function(file:line)".
func (c CallerInfo) String() string {
	if !c.Defined {
		return "?"
	}
	return c.Function + "(" + c.ShortFile + ":" + strconv.Itoa(c.Line) + ")"
}

var goroutinePrefix = []byte("goroutine ")

// GoroutineLabel returns a label for the calling goroutine, the closest
// analog to a thread name, e.g. "goroutine-7".
func GoroutineLabel() string {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// The header line reads "goroutine 7 [running]:".
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	return "goroutine-" + string(b)
}
