// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package board describes where the controllers of a board live and how
// they are wired.
//
// A Config holds the peripheral clock, the base address of each register
// block, the names of the pins routed to each controller and the default
// controller settings. Pins are looked up by name in gpioreg, so a Config
// works with any host driver that registers them.
//
// Default is the reference board. Load reads a JSON description on top of
// it.
package board
