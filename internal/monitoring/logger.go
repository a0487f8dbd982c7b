// Package monitoring carries diagnostics from the engine to the host's logger.
// The engine itself never logs; it returns Diagnostic values and the host
// decides whether to Report them.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Report forwards each diagnostic to Logf.
func Report(diags []Diagnostic) {
	for _, d := range diags {
		Logf("%s", d.String())
	}
}
