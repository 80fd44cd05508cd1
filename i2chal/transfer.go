// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chal

import (
	"fmt"

	"github.com/GermanBionicSystems/hal/regs"
)

// WriteByte sends b to the device at addr in a single transaction.
func (d *Dev) WriteByte(addr uint16, b byte) error {
	_, err := d.WriteBuffer(addr, []byte{b})
	return err
}

// ReadByte reads one byte from the device at addr in a single transaction.
//
// The byte is not acknowledged, which releases the device.
func (d *Dev) ReadByte(addr uint16) (byte, error) {
	var b [1]byte
	_, err := d.ReadBuffer(addr, b[:])
	return b[0], err
}

// WriteBuffer sends p to the device at addr framed by one start and one stop
// condition.
//
// It returns the number of bytes the device acknowledged. On DataNACK the
// count is the index of the refused byte.
func (d *Dev) WriteBuffer(addr uint16, p []byte) (int, error) {
	n, _, err := d.transfer(addr, p, nil)
	return n, err
}

// ReadBuffer fills p from the device at addr framed by one start and one stop
// condition.
//
// Every byte but the last is acknowledged; the last one is not. It returns
// the number of bytes received.
func (d *Dev) ReadBuffer(addr uint16, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("i2chal: empty read buffer: %w", Error)
	}
	_, n, err := d.transfer(addr, nil, p)
	return n, err
}

// Tx writes w then reads into r in one transaction, using a repeated start
// between the two phases. Either may be empty; when both are, only the
// address is sent.
func (d *Dev) Tx(addr uint16, w, r []byte) error {
	_, _, err := d.transfer(addr, w, r)
	return err
}

// Ping sends the write address of addr and nothing else.
//
// It returns nil if a device acknowledged.
func (d *Dev) Ping(addr uint16) error {
	_, _, err := d.transfer(addr, nil, nil)
	return err
}

// transfer runs one complete transaction. The bus is always left stopped.
func (d *Dev) transfer(addr uint16, w, r []byte) (nw, nr int, err error) {
	if !d.ready {
		return 0, 0, fmt.Errorf("i2chal: controller not initialized: %w", Error)
	}
	if addr > d.cfg.AddressMode.max() {
		return 0, 0, fmt.Errorf("i2chal: address 0x%X out of range for %s addressing: %w", addr, d.cfg.AddressMode, Error)
	}
	defer d.stop()

	if err = d.start(); err != nil {
		return
	}
	if len(w) != 0 || len(r) == 0 {
		if err = d.sendAddress(addr, dirWrite, false); err != nil {
			return
		}
		for _, b := range w {
			if err = d.send(addr, b, nw); err != nil {
				return
			}
			nw++
		}
		if len(r) == 0 {
			return
		}
		if err = d.start(); err != nil {
			return
		}
		err = d.sendAddress(addr, dirRead, true)
	} else {
		err = d.sendAddress(addr, dirRead, false)
	}
	if err != nil {
		return
	}
	for i := range r {
		if r[i], err = d.receive(i == len(r)-1); err != nil {
			return
		}
		nr++
	}
	return
}

// wait polls the status register until one of the bits in mask is set, at
// most Timeout times.
func (d *Dev) wait(mask uint32) (uint32, bool) {
	return regs.Poll(d.r, RegSR, d.cfg.Timeout, func(v uint32) bool {
		return v&mask != 0
	})
}

func (d *Dev) start() error {
	regs.Set(d.r, RegCR, CRStart)
	if _, ok := d.wait(SRSB); !ok {
		return fmt.Errorf("i2chal: no start condition after %d polls: %w", d.cfg.Timeout, Timeout)
	}
	return nil
}

func (d *Dev) stop() {
	regs.Set(d.r, RegCR, CRStop)
}

// sendAddress runs the address phase for dir.
//
// In 10 bit mode a read needs the full address sent with the write direction
// first, then a repeated start and the header again with the read bit.
// restarted is true when the full address was already sent in this
// transaction.
func (d *Dev) sendAddress(addr uint16, dir byte, restarted bool) error {
	if d.cfg.AddressMode == Addr7Bit {
		return d.addressByte(addr, byte(addr<<1)|dir, SRAddr)
	}
	hdr := header10 | byte(addr>>7)&0x06
	if dir == dirRead && restarted {
		return d.addressByte(addr, hdr|dirRead, SRAddr)
	}
	if err := d.addressByte(addr, hdr, SRAdd10); err != nil {
		return err
	}
	if err := d.addressByte(addr, byte(addr), SRAddr); err != nil {
		return err
	}
	if dir == dirRead {
		if err := d.start(); err != nil {
			return err
		}
		return d.addressByte(addr, hdr|dirRead, SRAddr)
	}
	return nil
}

// addressByte sends one byte of the address phase and waits for flag.
//
// Silence from the bus during the address window means no device is there.
func (d *Dev) addressByte(addr uint16, b byte, flag uint32) error {
	d.r.Store(RegDR, uint32(b))
	v, ok := d.wait(flag | SRAF)
	if !ok {
		return fmt.Errorf("i2chal: no device at 0x%X, nothing after %d polls: %w", addr, d.cfg.Timeout, AddrNACK)
	}
	if v&SRAF != 0 {
		regs.Clear(d.r, RegSR, SRAF)
		return fmt.Errorf("i2chal: device 0x%X did not acknowledge 0x%02X: %w", addr, b, AddrNACK)
	}
	regs.Clear(d.r, RegSR, flag)
	return nil
}

func (d *Dev) send(addr uint16, b byte, i int) error {
	d.r.Store(RegDR, uint32(b))
	v, ok := d.wait(SRTxE | SRAF)
	if !ok {
		return fmt.Errorf("i2chal: byte %d to 0x%X not transmitted after %d polls: %w", i, addr, d.cfg.Timeout, Timeout)
	}
	if v&SRAF != 0 {
		regs.Clear(d.r, RegSR, SRAF)
		return fmt.Errorf("i2chal: device 0x%X refused byte %d: %w", addr, i, DataNACK)
	}
	return nil
}

// receive waits for a byte then acknowledges it, or not when it is the last.
func (d *Dev) receive(last bool) (byte, error) {
	if _, ok := d.wait(SRRxNE); !ok {
		return 0, fmt.Errorf("i2chal: no data after %d polls: %w", d.cfg.Timeout, Timeout)
	}
	b := byte(d.r.Load(RegDR))
	ack := CRAck
	if last {
		ack = 0
	}
	regs.Update(d.r, RegCR, CRAck, ack)
	return b, nil
}
