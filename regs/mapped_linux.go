// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regs

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapped is a register block mapped from physical memory through /dev/mem.
//
// It is the backend used on real silicon. Root access is required.
type Mapped struct {
	base uint64
	mem  []byte
	off  int
	size int
}

// Map maps size bytes of physical memory starting at base.
//
// base does not need to be page aligned; the mapping is widened to whole
// pages and the block starts at base.
func Map(base uint64, size int) (*Mapped, error) {
	if size <= 0 || size&3 != 0 {
		return nil, fmt.Errorf("regs: invalid block size %d", size)
	}
	if base&3 != 0 {
		return nil, fmt.Errorf("regs: base 0x%X is not word aligned", base)
	}
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("regs: %w", err)
	}
	defer f.Close()
	page := uint64(os.Getpagesize())
	start := base &^ (page - 1)
	off := int(base - start)
	length := (off + size + int(page) - 1) &^ (int(page) - 1)
	mem, err := unix.Mmap(int(f.Fd()), int64(start), length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("regs: mapping 0x%X: %w", base, err)
	}
	return &Mapped{base: base, mem: mem, off: off, size: size}, nil
}

// Load implements Block.
func (m *Mapped) Load(off Offset) uint32 {
	return atomic.LoadUint32(m.word(off))
}

// Store implements Block.
func (m *Mapped) Store(off Offset, v uint32) {
	atomic.StoreUint32(m.word(off), v)
}

// Close unmaps the block. The Mapped must not be used afterwards.
func (m *Mapped) Close() error {
	if m.mem == nil {
		return errors.New("regs: block already closed")
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	return err
}

func (m *Mapped) String() string {
	return fmt.Sprintf("mmio@0x%08X", m.base)
}

func (m *Mapped) word(off Offset) *uint32 {
	if off&3 != 0 || int(off)+4 > m.size {
		panic(fmt.Sprintf("regs: invalid offset %s in block of %d bytes", off, m.size))
	}
	return (*uint32)(unsafe.Pointer(&m.mem[m.off+int(off)]))
}

var _ Block = &Mapped{}
