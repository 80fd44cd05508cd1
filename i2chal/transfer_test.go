// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chal_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hal/halsim"
	"github.com/GermanBionicSystems/hal/i2chal"
)

func ops(l []halsim.Write) []halsim.Op {
	out := make([]halsim.Op, 0, len(l))
	for _, w := range l {
		out = append(out, w.Op)
	}
	return out
}

func TestFraming(t *testing.T) {
	const (
		addr7  = 0x48
		addr10 = 0x2A5
	)
	w7 := []halsim.Event{
		{Kind: halsim.Start},
		{Kind: halsim.Address, Addr: addr7},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0xAB},
		{Kind: halsim.Ack},
		{Kind: halsim.Stop},
	}
	r7 := []halsim.Event{
		{Kind: halsim.Start},
		{Kind: halsim.Address, Addr: addr7, Read: true},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0x5A},
		{Kind: halsim.Nack},
		{Kind: halsim.Stop},
	}
	w10 := []halsim.Event{
		{Kind: halsim.Start},
		{Kind: halsim.Address, Addr: addr10},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0xAB},
		{Kind: halsim.Ack},
		{Kind: halsim.Stop},
	}
	r10 := []halsim.Event{
		{Kind: halsim.Start},
		{Kind: halsim.Address, Addr: addr10},
		{Kind: halsim.Ack},
		{Kind: halsim.Restart},
		{Kind: halsim.Address, Addr: addr10, Read: true},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0x5A},
		{Kind: halsim.Nack},
		{Kind: halsim.Stop},
	}
	for _, test := range []struct {
		name             string
		mode             i2chal.AddressMode
		speed            physic.Frequency
		addr             uint16
		write, read      []halsim.Event
		writeOps, readOp []halsim.Op
		addressBytes     []uint32
	}{
		{
			"7bit standard", i2chal.Addr7Bit, i2chal.StandardMode, addr7, w7, r7,
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpData, halsim.OpStop},
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpNack, halsim.OpStop},
			[]uint32{0x90, 0x91},
		},
		{
			"7bit fast", i2chal.Addr7Bit, i2chal.FastMode, addr7, w7, r7,
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpData, halsim.OpStop},
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpNack, halsim.OpStop},
			[]uint32{0x90, 0x91},
		},
		{
			"10bit standard", i2chal.Addr10Bit, i2chal.StandardMode, addr10, w10, r10,
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpAddress, halsim.OpClear, halsim.OpData, halsim.OpStop},
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpAddress, halsim.OpClear, halsim.OpRestart, halsim.OpAddress, halsim.OpClear, halsim.OpNack, halsim.OpStop},
			[]uint32{0xF4, 0xA5, 0xF4, 0xA5, 0xF5},
		},
		{
			"10bit fast", i2chal.Addr10Bit, i2chal.FastMode, addr10, w10, r10,
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpAddress, halsim.OpClear, halsim.OpData, halsim.OpStop},
			[]halsim.Op{halsim.OpStart, halsim.OpAddress, halsim.OpClear, halsim.OpAddress, halsim.OpClear, halsim.OpRestart, halsim.OpAddress, halsim.OpClear, halsim.OpNack, halsim.OpStop},
			[]uint32{0xF4, 0xA5, 0xF4, 0xA5, 0xF5},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg := i2chal.DefaultConfig
			cfg.AddressMode = test.mode
			cfg.Speed = test.speed
			d, sim := newDev(t, halsim.Behavior{Data: []byte{0x5A}}, cfg)

			if err := d.WriteByte(test.addr, 0xAB); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.write, sim.Events()); diff != "" {
				t.Errorf("write events (-want +got):\n%s", diff)
			}
			writes := sim.Writes()
			if diff := cmp.Diff(test.writeOps, ops(writes)); diff != "" {
				t.Errorf("write ops (-want +got):\n%s", diff)
			}
			sim.ClearLogs()

			b, err := d.ReadByte(test.addr)
			if err != nil {
				t.Fatal(err)
			}
			if b != 0x5A {
				t.Errorf("wanted: 0x5A, got: %#x", b)
			}
			if diff := cmp.Diff(test.read, sim.Events()); diff != "" {
				t.Errorf("read events (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.readOp, ops(sim.Writes())); diff != "" {
				t.Errorf("read ops (-want +got):\n%s", diff)
			}

			var got []uint32
			for _, w := range append(writes, sim.Writes()...) {
				if w.Op == halsim.OpAddress {
					got = append(got, w.Value)
				}
			}
			if diff := cmp.Diff(test.addressBytes, got); diff != "" {
				t.Errorf("address bytes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddressNACK(t *testing.T) {
	for _, mode := range []i2chal.AddressMode{i2chal.Addr7Bit, i2chal.Addr10Bit} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := i2chal.DefaultConfig
			cfg.AddressMode = mode
			d, sim := newDev(t, halsim.AddressNACK, cfg)

			err := d.WriteByte(0x48, 0x01)
			if s := i2chal.StatusOf(err); s != i2chal.AddrNACK {
				t.Errorf("WriteByte wanted: %s, got: %s", i2chal.AddrNACK, s)
			}
			_, err = d.ReadByte(0x48)
			if s := i2chal.StatusOf(err); s != i2chal.AddrNACK {
				t.Errorf("ReadByte wanted: %s, got: %s", i2chal.AddrNACK, s)
			}
			w := sim.Writes()
			if n := halsim.Count(w, halsim.OpData); n != 0 {
				t.Errorf("wanted no data writes, got: %d", n)
			}
			if n := halsim.Count(w, halsim.OpAck) + halsim.Count(w, halsim.OpNack); n != 0 {
				t.Errorf("wanted no acknowledge writes, got: %d", n)
			}
			if n := halsim.Count(w, halsim.OpStop); n != 2 {
				t.Errorf("wanted: 2 stops, got: %d", n)
			}
			if last := w[len(w)-1].Op; last != halsim.OpStop {
				t.Errorf("bus left in %s", last)
			}
			// The refused flag was cleared so the next transaction starts clean.
			if sim.Load(i2chal.RegSR)&i2chal.SRAF != 0 {
				t.Error("acknowledge failure flag left set")
			}
		})
	}
}

func TestDataNACK(t *testing.T) {
	d, sim := newDev(t, halsim.DataNACKAfter(0), i2chal.DefaultConfig)
	err := d.WriteByte(0x48, 0x01)
	if !errors.Is(err, i2chal.DataNACK) {
		t.Fatalf("wanted: %v, got: %v", i2chal.DataNACK, err)
	}
	w := sim.Writes()
	if n := halsim.Count(w, halsim.OpAddress); n != 1 {
		t.Errorf("wanted: 1 address write, got: %d", n)
	}
	if n := halsim.Count(w, halsim.OpData); n != 1 {
		t.Errorf("wanted: 1 data write, got: %d", n)
	}
	if last := w[len(w)-1].Op; last != halsim.OpStop {
		t.Errorf("bus left in %s", last)
	}
	// The handle stays usable.
	sim.SetBehavior(halsim.AlwaysReady)
	if err := d.WriteByte(0x48, 0x01); err != nil {
		t.Fatal(err)
	}
}

func TestNeverReady(t *testing.T) {
	const limit = 100
	cfg := i2chal.DefaultConfig
	cfg.Timeout = limit
	for _, test := range []struct {
		name string
		f    func(d *i2chal.Dev) error
	}{
		{"WriteByte", func(d *i2chal.Dev) error { return d.WriteByte(0x48, 1) }},
		{"ReadByte", func(d *i2chal.Dev) error { _, err := d.ReadByte(0x48); return err }},
		{"WriteBuffer", func(d *i2chal.Dev) error { _, err := d.WriteBuffer(0x48, []byte{1, 2, 3}); return err }},
		{"ReadBuffer", func(d *i2chal.Dev) error { _, err := d.ReadBuffer(0x48, make([]byte, 3)); return err }},
		{"Tx", func(d *i2chal.Dev) error { return d.Tx(0x48, []byte{1}, make([]byte, 1)) }},
		{"Ping", func(d *i2chal.Dev) error { return d.Ping(0x48) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			d, sim := newDev(t, halsim.NeverReady, cfg)
			err := test.f(d)
			if s := i2chal.StatusOf(err); s != i2chal.Timeout {
				t.Fatalf("wanted: %s, got: %s (%v)", i2chal.Timeout, s, err)
			}
			if n := sim.StatusReads(); n != limit {
				t.Errorf("wanted: %d status reads, got: %d", limit, n)
			}
			w := sim.Writes()
			if last := w[len(w)-1].Op; last != halsim.OpStop {
				t.Errorf("bus left in %s", last)
			}
		})
	}
}

func TestStallMidTransaction(t *testing.T) {
	const limit = 20
	cfg := i2chal.DefaultConfig
	cfg.Timeout = limit
	for _, test := range []struct {
		name  string
		stall halsim.Phase
		want  i2chal.Status
		reads int
	}{
		// The address window expiring means nobody answered.
		{"address", halsim.PhaseAddress, i2chal.AddrNACK, 1 + limit},
		// Start, address, clear of ADDR, then the data wait.
		{"data", halsim.PhaseData, i2chal.Timeout, 1 + 1 + 1 + limit},
	} {
		t.Run(test.name, func(t *testing.T) {
			d, sim := newDev(t, halsim.Behavior{Stall: test.stall}, cfg)
			_, err := d.WriteBuffer(0x48, []byte{1, 2})
			if s := i2chal.StatusOf(err); s != test.want {
				t.Fatalf("wanted: %s, got: %s (%v)", test.want, s, err)
			}
			if n := sim.StatusReads(); n != test.reads {
				t.Errorf("wanted: %d status reads, got: %d", test.reads, n)
			}
			// A stop ends the stall.
			sim.SetBehavior(halsim.AlwaysReady)
			if err := d.WriteByte(0x48, 1); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestLatencyBound(t *testing.T) {
	const limit = 10
	cfg := i2chal.DefaultConfig
	cfg.Timeout = limit
	for _, test := range []struct {
		latency int
		want    i2chal.Status
	}{
		{0, i2chal.OK},
		{limit - 1, i2chal.OK},
		{limit, i2chal.Timeout},
	} {
		d, sim := newDev(t, halsim.Behavior{Latency: test.latency, Data: []byte{7}}, cfg)
		err := d.WriteByte(0x48, 1)
		if s := i2chal.StatusOf(err); s != test.want {
			t.Errorf("latency %d: WriteByte wanted: %s, got: %s", test.latency, test.want, s)
		}
		b, err := d.ReadByte(0x48)
		if s := i2chal.StatusOf(err); s != test.want {
			t.Errorf("latency %d: ReadByte wanted: %s, got: %s", test.latency, test.want, s)
		}
		if test.want == i2chal.OK && b != 7 {
			t.Errorf("latency %d: wanted: 7, got: %d", test.latency, b)
		}
		if test.want == i2chal.Timeout && sim.StatusReads() != 2*limit {
			t.Errorf("latency %d: wanted: %d status reads, got: %d", test.latency, 2*limit, sim.StatusReads())
		}
	}
}

func TestWriteBufferNACKAt(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30, 0x40, 0x50}
	for k := 0; k <= len(data); k++ {
		d, sim := newDev(t, halsim.DataNACKAfter(k), i2chal.DefaultConfig)
		n, err := d.WriteBuffer(0x48, data)
		want := i2chal.DataNACK
		if k == len(data) {
			want = i2chal.OK
		}
		if s := i2chal.StatusOf(err); s != want {
			t.Errorf("k=%d wanted: %s, got: %s", k, want, s)
		}
		if n != k {
			t.Errorf("k=%d wanted: %d written, got: %d", k, k, n)
		}
		w := sim.Writes()
		sent := k + 1
		if k == len(data) {
			sent = k
		}
		if got := halsim.Count(w, halsim.OpData); got != sent {
			t.Errorf("k=%d wanted: %d data writes, got: %d", k, sent, got)
		}
		if got := halsim.Count(w, halsim.OpStart); got != 1 {
			t.Errorf("k=%d wanted: 1 start, got: %d", k, got)
		}
		if got := halsim.Count(w, halsim.OpStop); got != 1 {
			t.Errorf("k=%d wanted: 1 stop, got: %d", k, got)
		}
	}
}

func TestReadBufferAcks(t *testing.T) {
	for _, l := range []int{1, 2, 5, 16} {
		d, sim := newDev(t, halsim.Behavior{Data: []byte{1, 2, 3}}, i2chal.DefaultConfig)
		p := make([]byte, l)
		n, err := d.ReadBuffer(0x48, p)
		if err != nil {
			t.Fatalf("L=%d: %v", l, err)
		}
		if n != l {
			t.Errorf("L=%d wanted: %d read, got: %d", l, l, n)
		}
		var want []halsim.Op
		for i := 0; i < l-1; i++ {
			want = append(want, halsim.OpAck)
		}
		want = append(want, halsim.OpNack)
		if diff := cmp.Diff(want, ops(halsim.Filter(sim.Writes(), halsim.OpAck, halsim.OpNack))); diff != "" {
			t.Errorf("L=%d acknowledges (-want +got):\n%s", l, diff)
		}
		for i, b := range p {
			if b != byte(i%3+1) {
				t.Errorf("L=%d byte %d wanted: %d, got: %d", l, i, i%3+1, b)
			}
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	d, sim := newDev(t, halsim.AlwaysReady, i2chal.DefaultConfig)
	if _, err := d.ReadBuffer(0x48, nil); !errors.Is(err, i2chal.Error) {
		t.Errorf("empty read wanted: %v, got: %v", i2chal.Error, err)
	}
	if err := d.WriteByte(0x80, 0); !errors.Is(err, i2chal.Error) {
		t.Errorf("7 bit address out of range wanted: %v, got: %v", i2chal.Error, err)
	}
	if len(sim.Writes()) != 0 {
		t.Errorf("registers written: %v", sim.Writes())
	}
	if _, err := i2chal.New(halsim.NewI2C(halsim.AlwaysReady), nil).ReadByte(0x48); !errors.Is(err, i2chal.Error) {
		t.Errorf("uninitialized wanted: %v, got: %v", i2chal.Error, err)
	}
}

func TestTxRegisterFile(t *testing.T) {
	d, sim := newDev(t, halsim.AlwaysReady, i2chal.DefaultConfig)
	rf := &halsim.RegisterFile{}
	rf.Set(0x00, 0x12)
	rf.Set(0x01, 0x34)
	sim.Attach(0x48, rf)

	r := make([]byte, 2)
	if err := d.Tx(0x48, []byte{0x00}, r); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x12, 0x34}, r); diff != "" {
		t.Errorf("read (-want +got):\n%s", diff)
	}
	want := []halsim.Event{
		{Kind: halsim.Start},
		{Kind: halsim.Address, Addr: 0x48},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0x00},
		{Kind: halsim.Ack},
		{Kind: halsim.Restart},
		{Kind: halsim.Address, Addr: 0x48, Read: true},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0x12},
		{Kind: halsim.Ack},
		{Kind: halsim.Data, Data: 0x34},
		{Kind: halsim.Nack},
		{Kind: halsim.Stop},
	}
	if diff := cmp.Diff(want, sim.Events()); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}

	if n, err := d.WriteBuffer(0x48, []byte{0x05, 0xAA, 0xBB}); err != nil || n != 3 {
		t.Fatalf("wanted: 3, got: %d (%v)", n, err)
	}
	if rf.Get(0x05) != 0xAA || rf.Get(0x06) != 0xBB {
		t.Errorf("registers not written: %#x %#x", rf.Get(0x05), rf.Get(0x06))
	}

	if err := d.Ping(0x48); err != nil {
		t.Errorf("attached device: %v", err)
	}
	if err := d.Ping(0x49); !errors.Is(err, i2chal.AddrNACK) {
		t.Errorf("empty address wanted: %v, got: %v", i2chal.AddrNACK, err)
	}
}

func TestStalledReadKeepsPointer(t *testing.T) {
	cfg := i2chal.DefaultConfig
	cfg.Timeout = 20
	d, sim := newDev(t, halsim.Behavior{Stall: halsim.PhaseData}, cfg)
	rf := &halsim.RegisterFile{}
	rf.Set(0x00, 0x42)
	rf.Set(0x01, 0x43)
	sim.Attach(0x48, rf)

	if _, err := d.ReadByte(0x48); !errors.Is(err, i2chal.Timeout) {
		t.Fatalf("wanted: %v, got: %v", i2chal.Timeout, err)
	}
	// The byte never reached the controller, so the device did not send it.
	if p := rf.Pointer(); p != 0 {
		t.Errorf("wanted: pointer 0, got: %d", p)
	}
	sim.SetBehavior(halsim.AlwaysReady)
	v, err := d.ReadByte(0x48)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x42 {
		t.Errorf("wanted: 0x42, got: %#x", v)
	}
}
