// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package halsim simulates the I²C and UART controller register blocks.
//
// I2C and UART implement regs.Block and react to register accesses the way
// the silicon does, so i2chal and uarthal run unmodified on a host. Each
// simulated block keeps a log of the register writes it received and, for
// I²C, a decoded trace of the bus activity.
//
// The I²C model is driven by a Behavior: always ready, refusing the address,
// refusing data from a given byte onwards, or never setting any flag. Devices
// can be attached at an address to answer transactions with real data.
//
// Every register access is logged with glog at verbosity 3.
package halsim
