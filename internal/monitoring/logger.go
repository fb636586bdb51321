// Package monitoring holds the diagnostic logger shared by go-compass packages.
package monitoring

import "log"

// Logf is the diagnostic logger. It defaults to log.Printf.
// Library code never logs per sample; only state transitions and failures are reported.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes logging.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Prefixed returns a logger which prepends "component: " to every message.
// The returned logger resolves Logf on every call, so SetLogger applies to it too.
func Prefixed(component string) func(format string, v ...interface{}) {
	prefix := component + ": "
	return func(format string, v ...interface{}) {
		Logf(prefix+format, v...)
	}
}
