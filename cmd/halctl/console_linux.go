// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/uart"
)

// runConsole connects the terminal to the UART until ^C or ^D is typed.
func runConsole(e *env, args []string) error {
	if len(args) != 0 {
		return errors.New("console takes no argument")
	}
	port, err := e.openPort()
	if err != nil {
		return err
	}
	defer port.Close()
	c, err := port.Connect(e.board.UART.Config.Baud, uart.One, uart.NoParity, uart.NoFlow, 8)
	if err != nil {
		return err
	}
	rw, ok := c.(io.ReadWriter)
	if !ok {
		return fmt.Errorf("%s is not a stream", port)
	}
	restore, err := makeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer restore()
	fmt.Fprintf(e.out, "connected to %s, ^C or ^D to quit\r\n", port)

	err = pipe(rw, os.Stdin, e.out)
	glog.V(1).Infof("console: %v", err)
	return err
}

// makeRaw puts the terminal in raw mode with reads returning after 100ms
// even when nothing was typed.
func makeRaw(fd int) (func(), error) {
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	t := *old
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 1
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &t); err != nil {
		return nil, err
	}
	return func() {
		if err := unix.IoctlSetTermios(fd, unix.TCSETS, old); err != nil {
			glog.Warningf("console: restoring terminal: %v", err)
		}
	}, nil
}
