// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package halsim

import "sync"

// Target is a device attached to the simulated I²C bus.
type Target interface {
	// Start is called when the target's address is acknowledged.
	Start(read bool)
	// Write receives a byte from the controller and returns true to
	// acknowledge it.
	Write(b byte) bool
	// Read returns the next byte to send to the controller.
	Read() byte
	// Stop is called on the stop condition ending a transaction that
	// addressed the target.
	Stop()
}

// RegisterFile is a Target with 256 byte registers behind a register
// pointer, the layout most sensors use.
//
// The first byte written after the address sets the pointer; the following
// ones are stored starting there. Reads return the register at the pointer.
// The pointer increments after every access and wraps around.
type RegisterFile struct {
	mu      sync.Mutex
	regs    [256]byte
	ptr     byte
	setting bool
}

// Set stores v in register r.
func (f *RegisterFile) Set(r, v byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[r] = v
}

// Get returns register r.
func (f *RegisterFile) Get(r byte) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[r]
}

// Pointer returns the register pointer.
func (f *RegisterFile) Pointer() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ptr
}

// Start implements Target.
func (f *RegisterFile) Start(read bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setting = !read
}

// Write implements Target.
func (f *RegisterFile) Write(b byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setting {
		f.ptr = b
		f.setting = false
		return true
	}
	f.regs[f.ptr] = b
	f.ptr++
	return true
}

// Read implements Target.
func (f *RegisterFile) Read() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.regs[f.ptr]
	f.ptr++
	return b
}

// Stop implements Target.
func (f *RegisterFile) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setting = false
}

var _ Target = &RegisterFile{}

// WordFile is a Target with 256 big endian 16 bit registers behind a register
// pointer, like TMP102 style temperature sensors.
//
// The first byte written after the address sets the pointer; the following
// pairs of bytes are stored, most significant byte first, into the register
// at the pointer. Reads return the register at the pointer, MSB then LSB,
// again and again. The pointer never moves by itself.
type WordFile struct {
	mu      sync.Mutex
	regs    [256]uint16
	ptr     byte
	setting bool
	low     bool // the next byte is the low half
	hi      byte
}

// Set stores v in register r.
func (f *WordFile) Set(r byte, v uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[r] = v
}

// Get returns register r.
func (f *WordFile) Get(r byte) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[r]
}

// Pointer returns the register pointer.
func (f *WordFile) Pointer() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ptr
}

// Start implements Target.
func (f *WordFile) Start(read bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setting = !read
	f.low = false
}

// Write implements Target.
func (f *WordFile) Write(b byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.setting:
		f.ptr = b
		f.setting = false
	case !f.low:
		f.hi = b
		f.low = true
	default:
		f.regs[f.ptr] = uint16(f.hi)<<8 | uint16(b)
		f.low = false
	}
	return true
}

// Read implements Target.
func (f *WordFile) Read() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.regs[f.ptr]
	if f.low {
		f.low = false
		return byte(v)
	}
	f.low = true
	return byte(v >> 8)
}

// Stop implements Target. A half written register is dropped.
func (f *WordFile) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setting = false
	f.low = false
}

var _ Target = &WordFile{}
