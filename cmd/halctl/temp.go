// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hal/tmp102"
)

// runTemp reads the TMP102 at the sensor address n times, one second apart.
func runTemp(e *env, args []string) error {
	if len(args) != 0 {
		return errors.New("temp takes no argument")
	}
	bus, err := e.openBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	return readTemp(e.out, bus, uint16(*sensor), *loops, time.Second)
}

func readTemp(w io.Writer, bus i2c.Bus, addr uint16, n int, interval time.Duration) error {
	d, err := tmp102.NewI2C(bus, addr, nil)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if i != 0 {
			time.Sleep(interval)
		}
		var env physic.Env
		if err := d.Sense(&env); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", d, env.Temperature)
	}
	return nil
}
