// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package halsim

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/regs"
)

// srClearable are the status bits cleared by writing zero to them.
const srClearable = i2chal.SRAddr | i2chal.SRAdd10 | i2chal.SRSB | i2chal.SRAF

type i2cState uint8

const (
	stIdle    i2cState = iota
	stAddress          // waiting for the (first) address byte
	stLow10            // waiting for the low byte of a 10 bit address
	stWrite            // data bytes flow to the target
	stRead             // data bytes flow from the target
	stRefused          // address refused, waiting for stop
)

// I2C simulates an I²C controller register block.
//
// It is safe for concurrent use.
type I2C struct {
	mu sync.Mutex
	b  Behavior

	cr, sr, dr, ccr uint32
	pend            uint32 // flags not yet visible
	delay           int    // status reads left before pend is applied
	stalled         bool
	unresponsive    bool

	state    i2cState
	addr     uint16
	hi10     uint16 // upper bits from the last 10 bit header
	full10   bool   // a full 10 bit address was sent in this transaction
	index    int    // data byte index since the address phase
	tgt      Target
	awaitAck bool // DR was read, the next CR write acknowledges or not
	fill     int

	targets map[uint16]Target
	writes  []Write
	events  []Event
	reads   int
}

// NewI2C returns a simulated controller answering as b.
func NewI2C(b Behavior) *I2C {
	return &I2C{b: b, targets: map[uint16]Target{}}
}

func (s *I2C) String() string {
	return "halsim.I2C"
}

// SetBehavior replaces the behavior. It takes effect on the next event.
func (s *I2C) SetBehavior(b Behavior) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b = b
}

// Attach connects t at addr. Once a target is attached, addresses without a
// target are refused.
func (s *I2C) Attach(addr uint16, t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[addr] = t
}

// Preset sets status bits that the driver sees on its next poll.
func (s *I2C) Preset(bits uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sr |= bits
}

// Stall stops setting status flags until the next stop condition.
func (s *I2C) Stall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalled = true
	s.pend = 0
}

// SetUnresponsive makes every register read zero and drops every write, like
// a block whose clock is gated or that is not there.
func (s *I2C) SetUnresponsive(u bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unresponsive = u
}

// Writes returns a copy of the register write log.
func (s *I2C) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Events returns a copy of the decoded bus trace.
func (s *I2C) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// StatusReads returns the number of status register reads.
func (s *I2C) StatusReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// ClearLogs empties the write log, the bus trace and the status read counter.
func (s *I2C) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
	s.events = nil
	s.reads = 0
}

// Reset returns the registers and logs to their power-on state. The behavior
// and the attached targets are kept.
func (s *I2C) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cr, s.sr, s.dr, s.ccr = 0, 0, 0, 0
	s.pend, s.delay = 0, 0
	s.stalled = false
	s.endTransaction()
	s.writes = nil
	s.events = nil
	s.reads = 0
}

// Load implements regs.Block.
func (s *I2C) Load(off regs.Offset) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var v uint32
	switch off {
	case i2chal.RegCR:
		v = s.cr
	case i2chal.RegSR:
		s.reads++
		if s.pend != 0 {
			if s.delay == 0 {
				s.sr |= s.pend
				s.pend = 0
			} else {
				s.delay--
			}
		}
		v = s.sr
	case i2chal.RegDR:
		v = s.dr
		if s.state == stRead && s.sr&i2chal.SRRxNE != 0 {
			s.sr &^= i2chal.SRRxNE
			s.awaitAck = true
		}
	case i2chal.RegCCR:
		v = s.ccr
	default:
		panic(fmt.Sprintf("halsim: invalid I2C register %s", off))
	}
	if s.unresponsive {
		v = 0
	}
	glog.V(3).Infof("halsim: i2c %s -> 0x%08X", off, v)
	return v
}

// Store implements regs.Block.
func (s *I2C) Store(off regs.Offset, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unresponsive {
		glog.V(3).Infof("halsim: i2c %s <- 0x%08X dropped", off, v)
		return
	}
	op := OpConfig
	switch off {
	case i2chal.RegCR:
		op = s.control(v)
	case i2chal.RegSR:
		s.sr = s.sr&^srClearable | v&s.sr&srClearable
		op = OpClear
	case i2chal.RegDR:
		op = s.data(byte(v))
	case i2chal.RegCCR:
		s.ccr = v & i2chal.CCRMask
	default:
		panic(fmt.Sprintf("halsim: invalid I2C register %s", off))
	}
	w := Write{Off: off, Value: v, Op: op}
	s.writes = append(s.writes, w)
	glog.V(3).Infof("halsim: i2c %s", w)
}

func (s *I2C) control(v uint32) Op {
	s.cr = v &^ (i2chal.CRStart | i2chal.CRStop)
	if v&i2chal.CREnable == 0 {
		return OpConfig
	}
	switch {
	case v&i2chal.CRStart != 0:
		op := OpStart
		if s.sr&i2chal.SRBusy != 0 {
			op = OpRestart
			s.event(Event{Kind: Restart})
		} else {
			s.event(Event{Kind: Start})
		}
		s.sr |= i2chal.SRBusy
		s.sr &^= i2chal.SRTxE | i2chal.SRRxNE
		s.state = stAddress
		s.awaitAck = false
		s.signal(i2chal.SRSB, PhaseStart)
		return op
	case v&i2chal.CRStop != 0:
		s.event(Event{Kind: Stop})
		if s.tgt != nil {
			s.tgt.Stop()
		}
		s.endTransaction()
		s.sr &^= i2chal.SRBusy | i2chal.SRTxE | i2chal.SRRxNE
		s.pend, s.delay = 0, 0
		s.stalled = false
		return OpStop
	case s.awaitAck:
		s.awaitAck = false
		if v&i2chal.CRAck == 0 {
			s.event(Event{Kind: Nack})
			return OpNack
		}
		s.event(Event{Kind: Ack})
		s.loadByte()
		return OpAck
	}
	return OpConfig
}

func (s *I2C) data(b byte) Op {
	s.dr = uint32(b)
	s.sr &^= i2chal.SRSB | i2chal.SRTxE
	switch s.state {
	case stAddress:
		if s.cr&i2chal.CRAddr10 != 0 && b&0xF8 == 0xF0 {
			hi := uint16(b>>1) & 0x3
			if b&1 != 0 {
				if !s.full10 || hi != s.hi10 {
					// A read header without a preceding write addresses nobody.
					s.refuse()
					return OpAddress
				}
				s.address(s.addr, true)
				return OpAddress
			}
			s.hi10 = hi
			s.full10 = false
			if s.b.NACKAddress {
				s.refuse()
				return OpAddress
			}
			s.state = stLow10
			s.signal(i2chal.SRAdd10, PhaseAddress)
			return OpAddress
		}
		s.address(uint16(b>>1), b&1 != 0)
		return OpAddress
	case stLow10:
		s.full10 = true
		s.address(s.hi10<<8|uint16(b), false)
		return OpAddress
	case stWrite:
		s.event(Event{Kind: Data, Data: b})
		i := s.index
		s.index++
		ok := !(s.b.NACKData && i >= s.b.NACKAfter)
		if ok && s.tgt != nil {
			ok = s.tgt.Write(b)
		}
		if !ok {
			s.event(Event{Kind: Nack})
			s.signal(i2chal.SRAF, PhaseData)
			return OpData
		}
		s.event(Event{Kind: Ack})
		s.signal(i2chal.SRTxE, PhaseData)
		return OpData
	}
	return OpData
}

func (s *I2C) address(addr uint16, read bool) {
	s.addr = addr
	s.event(Event{Kind: Address, Addr: addr, Read: read})
	t, found := s.targets[addr]
	if s.b.NACKAddress || (len(s.targets) != 0 && !found) {
		s.refuse()
		return
	}
	s.event(Event{Kind: Ack})
	s.tgt = t
	s.index = 0
	if t != nil {
		t.Start(read)
	}
	if !read {
		s.state = stWrite
		s.signal(i2chal.SRAddr, PhaseAddress)
		return
	}
	s.state = stRead
	if s.signal(i2chal.SRAddr, PhaseAddress) {
		s.loadByte()
	}
}

func (s *I2C) refuse() {
	s.event(Event{Kind: Nack})
	s.state = stRefused
	s.signal(i2chal.SRAF, PhaseAddress)
}

// loadByte makes the target drive the next byte into DR.
//
// A stalled bus never delivers the byte, so the target is not asked for it.
func (s *I2C) loadByte() {
	if s.stalls(PhaseData) {
		return
	}
	var b byte
	switch {
	case s.tgt != nil:
		b = s.tgt.Read()
	case len(s.b.Data) != 0:
		b = s.b.Data[s.fill%len(s.b.Data)]
		s.fill++
	}
	s.signal(i2chal.SRRxNE, PhaseData)
	s.dr = uint32(b)
	s.event(Event{Kind: Data, Data: b})
}

// signal makes flags visible, after the configured latency. It returns false
// if the bus is stalled.
func (s *I2C) signal(flags uint32, p Phase) bool {
	if s.stalls(p) {
		return false
	}
	if s.b.Latency <= 0 {
		s.sr |= flags
		return true
	}
	s.pend |= flags
	s.delay = s.b.Latency
	return true
}

// stalls reports whether no flag may be raised in phase p.
func (s *I2C) stalls(p Phase) bool {
	if s.b.Stall != PhaseNone && p >= s.b.Stall {
		s.stalled = true
	}
	return s.stalled
}

func (s *I2C) endTransaction() {
	s.state = stIdle
	s.tgt = nil
	s.full10 = false
	s.awaitAck = false
	s.index = 0
}

func (s *I2C) event(e Event) {
	s.events = append(s.events, e)
}

var _ regs.Block = &I2C{}
