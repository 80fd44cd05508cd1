// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"

	"github.com/golang/glog"

	"github.com/GermanBionicSystems/hal/board"
	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/regs"
	"github.com/GermanBionicSystems/hal/uarthal"
)

// sensorRegister is the register polled by the demo.
const sensorRegister = 0x00

// runDemo is the reference application: bring both controllers up, then
// repeatedly point the sensor at its value register, read it and print it.
func runDemo(e *env, args []string) error {
	if len(args) != 0 {
		return errors.New("demo takes no argument")
	}
	return demo(&e.board, e.i2c, e.uart, uint16(*sensor), *loops)
}

func demo(b *board.Config, ib, ub regs.Block, addr uint16, n int) error {
	u, err := b.NewUART(ub)
	if err != nil {
		return err
	}
	// Nothing can be printed before the UART is up.
	if err := u.WriteString("System Booting...\r\nUART Initialized.\r\n"); err != nil {
		return err
	}
	d, err := b.NewI2C(ib)
	if err != nil {
		return err
	}
	if err := u.WriteString("I2C Initialized.\r\nSystem Ready.\r\n"); err != nil {
		return err
	}
	return demoLoop(u, d, addr, n)
}

func demoLoop(u *uarthal.Dev, d *i2chal.Dev, addr uint16, n int) error {
	for i := 0; i < n; i++ {
		if err := readSensor(u, d, addr); err != nil {
			return err
		}
		if err := u.WriteString("Loop iteration complete.\r\n"); err != nil {
			return err
		}
	}
	return nil
}

// readSensor prints one sensor reading. Bus errors are reported on u and
// logged; only UART errors are returned.
func readSensor(u *uarthal.Dev, d *i2chal.Dev, addr uint16) error {
	if err := u.WriteString("Reading temperature sensor...\r\n"); err != nil {
		return err
	}
	if err := d.WriteByte(addr, sensorRegister); err != nil {
		glog.Warningf("demo: selecting register: %v", err)
		return u.WriteString("I2C Write Error!\r\n")
	}
	v, err := d.ReadByte(addr)
	if err != nil {
		glog.Warningf("demo: reading: %v", err)
		return u.WriteString("I2C Read Error!\r\n")
	}
	if err := u.WriteString("Sensor Value (Hex): 0x"); err != nil {
		return err
	}
	if err := u.WriteHex(uint32(v)); err != nil {
		return err
	}
	return u.WriteString("\r\n")
}
