// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads chipsim settings from defaults, an optional .env file
// and CHIPSIM_* environment variables.
//
package config

import (
	"os"
	"strconv"

	"github.com/db47h/chipsim/ic"
	"github.com/db47h/chipsim/verify"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variable names.
//
const (
	EnvOutDir      = "CHIPSIM_OUT_DIR"
	EnvWorkers     = "CHIPSIM_WORKERS"
	EnvMaxAddrBits = "CHIPSIM_MAX_ADDR_BITS"
	EnvVerifyDepth = "CHIPSIM_VERIFY_DEPTH"
	EnvVerifyRuns  = "CHIPSIM_VERIFY_RUNS"
	EnvSeed        = "CHIPSIM_SEED"
)

// DefaultEnvFile is the file loaded by Load when no file name is given.
//
const DefaultEnvFile = ".env"

// Config holds the chipsim settings.
//
type Config struct {
	OutDir      string // output directory for traces and netlists
	Workers     int    // circuit workers, <= 0 means GOMAXPROCS
	MaxAddrBits int    // memory address width ceiling
	VerifyDepth int    // steps per verification run
	VerifyRuns  int    // verification runs
	Seed        int64  // random seed, 0 picks one from the current time
}

// Default returns the default settings.
//
func Default() Config {
	return Config{
		OutDir:      "out",
		Workers:     1,
		MaxAddrBits: ic.DefaultMaxAddrBits,
		VerifyDepth: verify.DefaultDepth,
		VerifyRuns:  verify.DefaultRuns,
	}
}

// Load loads envFile into the process environment if it exists, without
// overriding variables already set, then returns the default settings
// updated from the environment. An empty envFile means DefaultEnvFile.
//
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err = godotenv.Load(envFile); err != nil {
			return Config{}, errors.Wrapf(err, "failed to load %s", envFile)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "failed to load %s", envFile)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv returns the default settings updated from the variables found by
// lookup.
//
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup(EnvOutDir); ok && v != "" {
		c.OutDir = v
	}
	ints := []struct {
		name string
		v    *int
	}{
		{EnvWorkers, &c.Workers},
		{EnvMaxAddrBits, &c.MaxAddrBits},
		{EnvVerifyDepth, &c.VerifyDepth},
		{EnvVerifyRuns, &c.VerifyRuns},
	}
	for _, i := range ints {
		v, ok := lookup(i.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.Wrapf(err, "invalid %s", i.name)
		}
		*i.v = n
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return c, errors.Wrapf(err, "invalid %s", EnvSeed)
		}
		c.Seed = n
	}
	return c, c.Validate()
}

// Validate checks that settings are in range.
//
func (c Config) Validate() error {
	if c.MaxAddrBits < 1 || c.MaxAddrBits > ic.DefaultMaxAddrBits {
		return errors.Errorf("address width ceiling %d out of range 1 to %d", c.MaxAddrBits, ic.DefaultMaxAddrBits)
	}
	if c.VerifyDepth < 1 {
		return errors.Errorf("invalid verification depth %d", c.VerifyDepth)
	}
	if c.VerifyRuns < 1 {
		return errors.Errorf("invalid verification run count %d", c.VerifyRuns)
	}
	if c.OutDir == "" {
		return errors.New("empty output directory")
	}
	return nil
}
