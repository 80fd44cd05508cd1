// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package main

import "errors"

func runConsole(e *env, args []string) error {
	return errors.New("console is only supported on linux")
}
