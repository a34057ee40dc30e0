// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"bufio"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// VCDWriter is a Recorder writing an IEEE 1364 value change dump with a 1ns
// timescale. Only value changes are written after the initial $dumpvars.
//
type VCDWriter struct {
	w      *bufio.Writer
	c      io.Closer
	sigs   []Signal
	ids    []string
	last   []uint64
	now    time.Duration
	stamp  time.Duration // time of the last timestamp written
	dumped bool
	err    error
}

// NewVCDWriter returns a VCDWriter writing to w. If w is an io.Closer, it is
// closed by Close.
//
func NewVCDWriter(w io.Writer) *VCDWriter {
	v := &VCDWriter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		v.c = c
	}
	return v
}

// CreateVCD creates the named VCD file in fs.
//
func CreateVCD(fs afero.Fs, name string) (*VCDWriter, error) {
	f, err := Create(fs, name)
	if err != nil {
		return nil, err
	}
	log.WithField("file", name).Info("writing value change dump")
	return NewVCDWriter(f), nil
}

// vcdID returns the identifier code of the nth signal. Codes use the
// printable ASCII characters from '!' to '~'.
//
func vcdID(n int) string {
	const base = '~' - '!' + 1
	var b []byte
	for {
		b = append(b, byte('!'+n%base))
		n /= base
		if n == 0 {
			return string(b)
		}
		n--
	}
}

func (v *VCDWriter) print(s ...string) {
	for _, p := range s {
		if v.err != nil {
			return
		}
		_, v.err = v.w.WriteString(p)
	}
}

// Declare writes the VCD header.
//
func (v *VCDWriter) Declare(scope string, sigs []Signal) error {
	if v.sigs != nil {
		return errors.New("signals already declared")
	}
	v.sigs = make([]Signal, len(sigs))
	copy(v.sigs, sigs)
	v.ids = make([]string, len(sigs))
	v.last = make([]uint64, len(sigs))
	v.print("$version chipsim $end\n",
		"$timescale 1ns $end\n",
		"$scope module ", scope, " $end\n")
	for i, s := range sigs {
		v.ids[i] = vcdID(i)
		v.print("$var wire ", strconv.Itoa(s.Bits), " ", v.ids[i], " ", s.Name)
		if s.Bits > 1 {
			v.print(" [", strconv.Itoa(s.Bits-1), ":0]")
		}
		v.print(" $end\n")
	}
	v.print("$upscope $end\n", "$enddefinitions $end\n")
	return v.err
}

func (v *VCDWriter) value(i int, x uint64) {
	if v.sigs[i].Bits == 1 {
		v.print(strconv.FormatUint(x&1, 10), v.ids[i], "\n")
		return
	}
	v.print("b", strconv.FormatUint(x, 2), " ", v.ids[i], "\n")
}

func (v *VCDWriter) timestamp(t time.Duration) {
	v.stamp = t
	v.print("#", strconv.FormatInt(int64(t/time.Nanosecond), 10), "\n")
}

// Sample writes the values that changed since the previous sample. The first
// sample dumps all values.
//
func (v *VCDWriter) Sample(t time.Duration, values []uint64) error {
	if v.sigs == nil {
		return errors.New("sample before signal declaration")
	}
	if len(values) != len(v.sigs) {
		return errors.Errorf("got %d values for %d signals", len(values), len(v.sigs))
	}
	if !v.dumped {
		v.timestamp(t)
		v.print("$dumpvars\n")
		for i, x := range values {
			v.value(i, x)
		}
		v.print("$end\n")
		copy(v.last, values)
		v.now, v.dumped = t, true
		return v.err
	}
	if t < v.now {
		return errors.Errorf("sample time %v before %v", t, v.now)
	}
	stamped := t == v.stamp
	for i, x := range values {
		if x == v.last[i] {
			continue
		}
		if !stamped {
			v.timestamp(t)
			stamped = true
		}
		v.value(i, x)
		v.last[i] = x
	}
	v.now = t
	return v.err
}

// Close flushes the output and closes the underlying writer if it is an
// io.Closer.
//
func (v *VCDWriter) Close() error {
	err := v.w.Flush()
	if v.err == nil {
		v.err = err
	}
	if v.c != nil {
		if err = v.c.Close(); v.err == nil {
			v.err = err
		}
		v.c = nil
	}
	return v.err
}
