// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/hal/waveform"
)

// runTrace runs one register write and one register read against the
// simulated sensor, then draws what went over the wire.
func runTrace(e *env, args []string) error {
	if len(args) != 0 {
		return errors.New("trace takes no argument")
	}
	if e.sim == nil {
		return errSimOnly
	}
	bus, err := e.openBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	e.sim.I2C().ClearLogs()

	d := &i2c.Dev{Bus: bus, Addr: uint16(*sensor)}
	var v [1]byte
	if err := d.Tx([]byte{sensorRegister}, v[:]); err != nil {
		// Failed transactions are worth drawing too.
		glog.Warningf("trace: %v", err)
		fmt.Fprintf(e.out, "transaction failed: %v\n", err)
	} else {
		fmt.Fprintf(e.out, "register 0x%02X = 0x%02X\n", sensorRegister, v[0])
	}

	events := e.sim.I2C().Events()
	if err := waveform.Print(e.out, events, nil); err != nil {
		return err
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := waveform.WritePNG(f, events); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "wrote %s\n", *output)
	return nil
}
