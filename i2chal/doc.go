// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2chal drives an on-chip I²C master controller by polling its
// registers.
//
// The controller is reached through a regs.Block, so the same driver runs on
// memory mapped silicon and against the simulated controller of package
// halsim.
//
// A transaction walks a fixed sequence of phases: start condition, address
// phase (one byte for 7 bit addresses, a header and a low byte for 10 bit
// addresses), one acknowledge wait per byte, optional repeated start, stop
// condition. Every wait is a bounded poll of the status register; when the
// bound is exceeded the transaction is aborted with a stop condition and
// Timeout is returned. The driver never retries.
//
// # Status
//
// Operations return an error that is nil on success and otherwise wraps one
// of the Status values Timeout, AddrNACK, DataNACK or Error. Use StatusOf to
// switch on the outcome:
//
//	switch i2chal.StatusOf(err) {
//	case i2chal.OK:
//	case i2chal.AddrNACK:
//	case i2chal.DataNACK:
//	case i2chal.Timeout:
//	case i2chal.Error:
//	}
//
// # periph
//
// Bus wraps a Dev and implements i2c.BusCloser, so any periph device driver
// can talk through the controller.
package i2chal
