// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regs

import (
	"fmt"
	"sync/atomic"
)

// Offset is the byte offset of a register from the base of its block.
type Offset uint32

func (o Offset) String() string {
	return fmt.Sprintf("+0x%02X", uint32(o))
}

// Block is a register block with 32 bit registers.
//
// Load and Store must behave like volatile accesses: every call reaches the
// backend, nothing is cached.
type Block interface {
	Load(off Offset) uint32
	Store(off Offset, v uint32)
}

// Update replaces the bits selected by mask with the corresponding bits of
// value, leaving every other bit of the register untouched.
func Update(b Block, off Offset, mask, value uint32) {
	v := b.Load(off)
	b.Store(off, v&^mask|value&mask)
}

// Set sets the bits in mask.
func Set(b Block, off Offset, mask uint32) {
	Update(b, off, mask, mask)
}

// Clear clears the bits in mask.
func Clear(b Block, off Offset, mask uint32) {
	Update(b, off, mask, 0)
}

// IsSet returns true when all the bits in mask are set.
func IsSet(b Block, off Offset, mask uint32) bool {
	return b.Load(off)&mask == mask
}

// Field extracts the field selected by mask, shifted down by shift.
func Field(b Block, off Offset, mask uint32, shift uint) uint32 {
	return (b.Load(off) & mask) >> shift
}

// SetField writes v into the field selected by mask after shifting it up by
// shift. Bits of v outside the field are dropped.
func SetField(b Block, off Offset, mask uint32, shift uint, v uint32) {
	Update(b, off, mask, v<<shift)
}

// Poll reads the register at off until cond returns true or limit reads have
// been done, whichever comes first. It returns the last value read and
// whether cond was satisfied.
//
// The register is read at most limit times. A limit of zero or less never
// reads and reports failure.
func Poll(b Block, off Offset, limit int, cond func(v uint32) bool) (uint32, bool) {
	var v uint32
	for i := 0; i < limit; i++ {
		v = b.Load(off)
		if cond(v) {
			return v, true
		}
	}
	return v, false
}

// Mem is a register block backed by ordinary memory.
//
// Registers are plain storage: nothing reacts to writes. It is useful as the
// reset image of a peripheral or to unit test register manipulation. Accesses
// are atomic so a Mem can be inspected from another goroutine.
type Mem struct {
	words []uint32
}

// NewMem returns a zeroed block of size bytes, rounded up to a whole word.
func NewMem(size int) *Mem {
	return &Mem{words: make([]uint32, (size+3)/4)}
}

// Load implements Block.
func (m *Mem) Load(off Offset) uint32 {
	return atomic.LoadUint32(m.word(off))
}

// Store implements Block.
func (m *Mem) Store(off Offset, v uint32) {
	atomic.StoreUint32(m.word(off), v)
}

// Size returns the size of the block in bytes.
func (m *Mem) Size() int {
	return 4 * len(m.words)
}

func (m *Mem) word(off Offset) *uint32 {
	if off&3 != 0 || int(off/4) >= len(m.words) {
		panic(fmt.Sprintf("regs: invalid offset %s in block of %d bytes", off, m.Size()))
	}
	return &m.words[off/4]
}

var _ Block = &Mem{}
