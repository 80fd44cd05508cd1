// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package halsim

// Phase is a step of an I²C transaction.
type Phase uint8

// Transaction phases, in bus order.
const (
	PhaseNone Phase = iota
	PhaseStart
	PhaseAddress
	PhaseData
)

// Behavior describes how the simulated bus answers.
//
// The zero value is a bus where every flag appears immediately and every
// byte is acknowledged.
type Behavior struct {
	// NACKAddress refuses every address phase.
	NACKAddress bool
	// NACKData refuses data bytes written at index NACKAfter and later. The
	// index restarts at zero on every address phase.
	NACKData  bool
	NACKAfter int
	// Stall stops setting any status flag once the transaction reaches that
	// phase, until the next stop condition. PhaseNone disables it.
	Stall Phase
	// Latency is the number of status register reads a flag stays pending
	// before it becomes visible.
	Latency int
	// Data is returned cyclically by reads from an address with no attached
	// Target. Reads return 0 when it is empty.
	Data []byte
}

// Canned behaviors.
var (
	// AlwaysReady acknowledges everything without delay.
	AlwaysReady = Behavior{}
	// AddressNACK refuses every address.
	AddressNACK = Behavior{NACKAddress: true}
	// NeverReady never sets a status flag.
	NeverReady = Behavior{Stall: PhaseStart}
)

// DataNACKAfter acknowledges the address and the first n data bytes, then
// refuses the following ones.
func DataNACKAfter(n int) Behavior {
	return Behavior{NACKData: true, NACKAfter: n}
}
