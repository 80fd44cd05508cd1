// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal

import "errors"

var (
	// ErrTimeout is returned when the controller did not become ready within
	// the configured number of status reads.
	ErrTimeout = errors.New("uarthal: timeout")
	// ErrUnsupportedBaud is returned for a baud rate the divisor can't
	// produce within tolerance.
	ErrUnsupportedBaud = errors.New("uarthal: unsupported baud rate")
	// ErrUnsupportedParity is returned for mark and space parity.
	ErrUnsupportedParity = errors.New("uarthal: unsupported parity")
	// ErrUnsupportedStopBits is returned for 1.5 stop bits.
	ErrUnsupportedStopBits = errors.New("uarthal: unsupported stop bits")
	// ErrUnsupportedFormat is returned for anything but 8 data bits without
	// flow control.
	ErrUnsupportedFormat = errors.New("uarthal: unsupported frame format")
	// ErrNotInitialized is returned by the driver layer before Init.
	ErrNotInitialized = errors.New("uarthal: not initialized")
)
