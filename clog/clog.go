// Copyright 2021 The Quadstore Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clog provides leveled logging for quadstore packages.
//
// Store internals report index selection, duplicate adds and term
// eviction through Debugf; level 1 covers model lifecycle, level 2 the
// per-operation detail.
package clog

import "log"

// Logger is the clog logging interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Verboser is implemented by loggers that carry their own verbosity
// control (glog's -v flag). When the installed logger implements it,
// its verbosity decides what Debugf emits.
type Verboser interface {
	V(level int) bool
}

var (
	logger    Logger = stdlog{}
	verbosity int
)

// SetLogger set the clog logging implementation.
func SetLogger(l Logger) { logger = l }

// SetV sets the package verbosity level. It has no effect while the
// installed logger implements Verboser.
func SetV(level int) { verbosity = level }

// V returns whether messages at the given verbosity level are emitted.
func V(level int) bool {
	if v, ok := logger.(Verboser); ok {
		return v.V(level)
	}
	return verbosity >= level
}

// Debugf logs an information level message gated on verbosity.
func Debugf(level int, format string, args ...interface{}) {
	if logger != nil && V(level) {
		logger.Infof(format, args...)
	}
}

// Infof logs information level messages.
func Infof(format string, args ...interface{}) {
	if logger != nil {
		logger.Infof(format, args...)
	}
}

// Warningf logs warning level messages.
func Warningf(format string, args ...interface{}) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

// Errorf logs error level messages.
func Errorf(format string, args ...interface{}) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}

// Fatalf logs fatal messages and terminates the program.
func Fatalf(format string, args ...interface{}) {
	if logger != nil {
		logger.Fatalf(format, args...)
	}
}

// stdlog wraps the standard library logger.
type stdlog struct{}

func (stdlog) Infof(format string, args ...interface{})    { log.Printf(format, args...) }
func (stdlog) Warningf(format string, args ...interface{}) { log.Printf("WARN: "+format, args...) }
func (stdlog) Errorf(format string, args ...interface{})   { log.Printf("ERROR: "+format, args...) }
func (stdlog) Fatalf(format string, args ...interface{})   { log.Fatalf("FATAL: "+format, args...) }
