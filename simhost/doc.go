// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package simhost is a periph host driver exposing simulated controllers.
//
// Register must be called before host.Init or driverreg.Init. Once
// initialized, the registries contain:
//
//	i2creg   SIMI2C1
//	uartreg  SIMUART1
//	gpioreg  SIM_SCL, SIM_SDA, SIM_TX, SIM_RX
//
// The buses are driven by i2chal and uarthal on top of halsim register
// blocks, so periph device drivers run against the real HAL code. A TMP102
// reading 25°C answers at SensorAddr unless Opts.Targets says otherwise.
package simhost
