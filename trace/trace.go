// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records the port values of a simulated part over time.
//
// Recorders receive a declaration of the traced signals, then timestamped
// samples of all signal values. Writers are provided for value change dumps
// (VCD), GTKWave save files and SQLite databases.
//
package trace

import (
	"path/filepath"
	"time"

	"github.com/db47h/chipsim"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Signal is a traced signal.
//
type Signal struct {
	Name string
	Bits int
}

// Signals returns one Signal per port.
//
func Signals(ports chipsim.Ports) []Signal {
	sigs := make([]Signal, len(ports))
	for i, p := range ports {
		sigs[i] = Signal{Name: p.Name, Bits: p.Bits}
	}
	return sigs
}

// A Recorder records signal values.
//
// Declare is called once before any call to Sample. Sample receives the
// values of all declared signals, in declaration order. Sample times never
// decrease.
//
type Recorder interface {
	Declare(scope string, sigs []Signal) error
	Sample(t time.Duration, values []uint64) error
	Close() error
}

type multi []Recorder

// Multi returns a Recorder that forwards calls to all rs. Close closes all
// recorders and returns the first error.
//
func Multi(rs ...Recorder) Recorder {
	return multi(rs)
}

func (m multi) Declare(scope string, sigs []Signal) error {
	for _, r := range m {
		if err := r.Declare(scope, sigs); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Sample(t time.Duration, values []uint64) error {
	for _, r := range m {
		if err := r.Sample(t, values); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Close() error {
	var err error
	for _, r := range m {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Create creates the named file in fs, along with any missing parent
// directory.
//
func Create(fs afero.Fs, name string) (afero.File, error) {
	if dir := filepath.Dir(name); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create output directory")
		}
	}
	f, err := fs.Create(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", name)
	}
	return f, nil
}
