// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regs models a peripheral's memory mapped register block.
//
// A Block is the capability "something with 32 bit registers at byte
// offsets". Drivers are written against Block only; the backend is chosen
// when the driver is constructed: Mapped for real silicon reached through
// /dev/mem, Mem for a plain in-memory image, or a simulation from package
// halsim.
//
// Bit fields are never assigned blindly. Update, Set and Clear read the
// register, change the bits under a mask and write the result back so that
// unrelated configuration bits survive.
//
// Every wait on a flag goes through Poll, which reads the register a bounded
// number of times.
package regs
