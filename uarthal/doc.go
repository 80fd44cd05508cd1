// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package uarthal drives a polled UART controller.
//
// Dev exposes the register level operations. They never wait: SendByte
// writes the data register unconditionally and ReadByte returns whatever it
// holds, so callers check IsTxReady or IsRxReady first.
//
// The driver layer on top (Init, WriteChar, WriteString, ReadChar, WriteHex,
// WriteDec) does that polling with a bounded number of status reads and
// reports ErrTimeout when the controller never becomes ready.
//
// Port adapts a Dev to periph's uart.PortCloser.
package uarthal
