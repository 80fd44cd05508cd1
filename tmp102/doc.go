// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tmp102 reads a Texas Instruments TMP102 temperature sensor, the
// kind of device found at 0x48 on the reference board. TMP112 and TMP75 parts
// share the register layout.
//
// Range: -40°C - 125°C
//
// Resolution: 0.0625°C
//
// The driver only needs an i2c.Bus, so it runs on the HAL bus (i2chal.Bus),
// on the simulated one registered by simhost, or on any host bus.
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://www.ti.com/lit/ds/symlink/tmp102.pdf
package tmp102
