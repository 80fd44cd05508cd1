// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chal

import (
	"errors"
	"strconv"
)

// Status is the outcome of an I²C operation.
//
// The set of values is closed. A non-OK Status is also an error; operations
// return it, possibly wrapped with more context.
type Status uint8

const (
	// OK means the transaction completed.
	OK Status = iota
	// Timeout means a status flag did not appear within the poll bound.
	Timeout
	// AddrNACK means no device acknowledged the address phase.
	AddrNACK
	// DataNACK means the addressed device refused a data byte.
	DataNACK
	// Error means an invalid argument or an unresponsive controller.
	Error
)

var statusNames = [...]string{
	OK:       "ok",
	Timeout:  "timeout",
	AddrNACK: "address not acknowledged",
	DataNACK: "data not acknowledged",
	Error:    "error",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Error implements error.
func (s Status) Error() string {
	return "i2c: " + s.String()
}

// StatusOf maps an error returned by this package to its Status.
//
// nil maps to OK. An error that does not wrap a Status maps to Error.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return Error
}
