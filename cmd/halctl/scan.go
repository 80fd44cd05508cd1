// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/hal/i2chal"
)

func runScan(e *env, args []string) error {
	if len(args) != 0 {
		return errors.New("scan takes no argument")
	}
	bus, err := e.openBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	found, err := scan(bus)
	if err != nil {
		return err
	}
	printScan(e.out, bus, found)
	return nil
}

// scan sends an empty write to every non reserved 7 bit address. A refused address is
// skipped; any other failure stops the scan.
func scan(bus i2c.Bus) ([]uint16, error) {
	var found []uint16
	for addr := uint16(0x08); addr < 0x78; addr++ {
		err := bus.Tx(addr, nil, nil)
		switch i2chal.StatusOf(err) {
		case i2chal.OK:
			found = append(found, addr)
		case i2chal.AddrNACK:
			glog.V(2).Infof("scan: 0x%02X: %v", addr, err)
		case i2chal.Timeout, i2chal.DataNACK, i2chal.Error:
			return found, fmt.Errorf("scan: 0x%02X: %w", addr, err)
		}
	}
	return found, nil
}

func printScan(w io.Writer, bus i2c.Bus, found []uint16) {
	fmt.Fprintf(w, "%s: %d device(s)\n", bus, len(found))
	for _, a := range found {
		fmt.Fprintf(w, "  0x%02X\n", a)
	}
}
