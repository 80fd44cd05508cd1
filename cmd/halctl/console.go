// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"io"
	"sync"

	"github.com/GermanBionicSystems/hal/uarthal"
)

// pipe copies what port receives to out and what is typed on in to port,
// until ^C or ^D is typed or either direction fails.
//
// in and port must return periodically even when idle; both loops exit once
// the other side is done.
func pipe(port io.ReadWriter, in io.Reader, out io.Writer) error {
	stop := make(chan struct{})
	done := make(chan error)
	finish := func(err error) {
		select {
		case done <- err:
		case <-stop:
		}
	}
	stopped := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var buf [64]byte
		for !stopped() {
			n, err := port.Read(buf[:])
			if n != 0 {
				if _, err := out.Write(buf[:n]); err != nil {
					finish(err)
					return
				}
			}
			if err != nil && !errors.Is(err, uarthal.ErrTimeout) {
				finish(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		var buf [1]byte
		for !stopped() {
			n, err := in.Read(buf[:])
			if err != nil && err != io.EOF {
				finish(err)
				return
			}
			if n == 0 {
				continue
			}
			if buf[0] == 0x03 || buf[0] == 0x04 {
				finish(nil)
				return
			}
			if _, err := port.Write(buf[:]); err != nil {
				finish(err)
				return
			}
		}
	}()
	err := <-done
	close(stop)
	wg.Wait()
	return err
}
