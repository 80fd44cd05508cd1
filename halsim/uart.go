// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package halsim

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/GermanBionicSystems/hal/regs"
	"github.com/GermanBionicSystems/hal/uarthal"
)

// UART simulates a UART controller register block.
//
// The transmitter is ready unless SetTxReady(false) was called or a byte
// sent less than TxLatency status reads ago is still shifting out. Bytes
// queued with Inject are received one at a time.
//
// It is safe for concurrent use.
type UART struct {
	// Echo, if set, receives every byte transmitted while the controller is
	// enabled.
	Echo io.Writer
	// TxLatency is the number of status reads TX_READY stays clear after a
	// byte is sent.
	TxLatency int

	mu           sync.Mutex
	ctrl, baud   uint32
	data         uint32
	txReady      bool
	busy         int
	unresponsive bool
	rx           []byte
	sent         []byte
	writes       []Write
	reads        int
}

// NewUART returns a simulated controller with an idle transmitter and
// nothing received.
func NewUART() *UART {
	return &UART{txReady: true}
}

func (u *UART) String() string {
	return "halsim.UART"
}

// SetTxReady marks the transmit buffer ready or busy.
func (u *UART) SetTxReady(ready bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.txReady = ready
}

// SetUnresponsive makes every register read zero and drops every write.
func (u *UART) SetUnresponsive(v bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.unresponsive = v
}

// Inject queues b as received bytes.
func (u *UART) Inject(b ...byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rx = append(u.rx, b...)
}

// Pending returns the number of injected bytes not yet read.
func (u *UART) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rx)
}

// Sent returns a copy of the bytes transmitted while enabled.
func (u *UART) Sent() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]byte(nil), u.sent...)
}

// Writes returns a copy of the register write log.
func (u *UART) Writes() []Write {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Write(nil), u.writes...)
}

// StatusReads returns the number of status register reads.
func (u *UART) StatusReads() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reads
}

// Reset returns the registers and logs to their power-on state.
func (u *UART) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ctrl, u.baud, u.data = 0, 0, 0
	u.busy = 0
	u.txReady = true
	u.rx = nil
	u.sent = nil
	u.writes = nil
	u.reads = 0
}

// Load implements regs.Block.
func (u *UART) Load(off regs.Offset) uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	var v uint32
	switch off {
	case uarthal.RegCtrl:
		v = u.ctrl
	case uarthal.RegStatus:
		u.reads++
		if u.txReady && u.busy == 0 {
			v |= uarthal.StatusTxReady
		}
		if u.busy > 0 {
			u.busy--
		}
		if len(u.rx) != 0 {
			v |= uarthal.StatusRxReady
		}
	case uarthal.RegData:
		if len(u.rx) != 0 {
			u.data = uint32(u.rx[0])
			u.rx = u.rx[1:]
		}
		v = u.data
	case uarthal.RegBaud:
		v = u.baud
	default:
		panic(fmt.Sprintf("halsim: invalid UART register %s", off))
	}
	if u.unresponsive {
		v = 0
	}
	glog.V(3).Infof("halsim: uart %s -> 0x%08X", off, v)
	return v
}

// Store implements regs.Block.
func (u *UART) Store(off regs.Offset, v uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.unresponsive {
		glog.V(3).Infof("halsim: uart %s <- 0x%08X dropped", off, v)
		return
	}
	op := OpConfig
	switch off {
	case uarthal.RegCtrl:
		u.ctrl = v
	case uarthal.RegStatus:
	case uarthal.RegData:
		op = OpData
		u.data = v
		if u.ctrl&uarthal.CtrlEnable != 0 {
			b := byte(v)
			u.sent = append(u.sent, b)
			u.busy = u.TxLatency
			if u.Echo != nil {
				if _, err := u.Echo.Write([]byte{b}); err != nil {
					glog.Warningf("halsim: uart echo: %v", err)
				}
			}
		}
	case uarthal.RegBaud:
		u.baud = v & uarthal.BaudMask
	default:
		panic(fmt.Sprintf("halsim: invalid UART register %s", off))
	}
	w := Write{Off: off, Value: v, Op: op}
	u.writes = append(u.writes, w)
	glog.V(3).Infof("halsim: uart %s", w)
}

var _ regs.Block = &UART{}
