// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package halsim

import (
	"fmt"

	"github.com/GermanBionicSystems/hal/regs"
)

// Op is the meaning of a register write as decoded by the simulator.
type Op uint8

// Register write operations.
const (
	OpConfig  Op = iota // any other control or configuration write
	OpStart             // start condition requested
	OpRestart           // start condition requested while the bus is busy
	OpStop              // stop condition requested
	OpAck               // received byte acknowledged
	OpNack              // received byte not acknowledged
	OpAddress           // address byte written to the data register
	OpData              // data byte written to the data register
	OpClear             // status flags cleared
)

var opNames = [...]string{
	OpConfig:  "config",
	OpStart:   "start",
	OpRestart: "restart",
	OpStop:    "stop",
	OpAck:     "ack",
	OpNack:    "nack",
	OpAddress: "address",
	OpData:    "data",
	OpClear:   "clear",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Write is one register write received by a simulated block.
type Write struct {
	Off   regs.Offset
	Value uint32
	Op    Op
}

func (w Write) String() string {
	return fmt.Sprintf("%s<-0x%08X(%s)", w.Off, w.Value, w.Op)
}

// Count returns how many writes in l decode to op.
func Count(l []Write, op Op) int {
	n := 0
	for _, w := range l {
		if w.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the writes in l that decode to one of ops, in order.
func Filter(l []Write, ops ...Op) []Write {
	var out []Write
	for _, w := range l {
		for _, op := range ops {
			if w.Op == op {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// EventKind is the kind of a bus level event.
type EventKind uint8

// Bus events.
const (
	Start EventKind = iota
	Restart
	Address
	Data
	Ack
	Nack
	Stop
)

var eventNames = [...]string{
	Start:   "S",
	Restart: "Sr",
	Address: "A",
	Data:    "D",
	Ack:     "ACK",
	Nack:    "NACK",
	Stop:    "P",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is one step of the decoded I²C bus trace.
//
// Addr and Read are set for Address events, Data for Data events.
type Event struct {
	Kind EventKind
	Addr uint16
	Read bool
	Data byte
}

func (e Event) String() string {
	switch e.Kind {
	case Address:
		dir := "W"
		if e.Read {
			dir = "R"
		}
		return fmt.Sprintf("A(0x%X,%s)", e.Addr, dir)
	case Data:
		return fmt.Sprintf("D(0x%02X)", e.Data)
	default:
		return e.Kind.String()
	}
}
