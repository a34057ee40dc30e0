// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command chipsim simulates, verifies and emits netlists of the chipsim device
// models.
//
// Usage:
//
//	chipsim list
//	chipsim sim sram
//	chipsim verify latch --runs 1024
//	chipsim gen latch
//
package main

import (
	"github.com/db47h/chipsim/internal/cli"
	"github.com/tebeka/atexit"
)

func main() {
	atexit.Exit(cli.Execute())
}
