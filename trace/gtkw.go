// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// GTKWave trace flags.
const (
	gtkwHex = "@22"
	gtkwBin = "@28"
)

// GTKWSave is a Recorder writing a GTKWave save file that opens a value
// change dump with all declared signals displayed. Buses are shown in
// hexadecimal. Samples are ignored.
//
type GTKWSave struct {
	w    io.Writer
	dump string
}

// NewGTKWSave returns a GTKWSave writing to w. dump is the path of the VCD
// file as seen by GTKWave.
//
func NewGTKWSave(w io.Writer, dump string) *GTKWSave {
	return &GTKWSave{w: w, dump: dump}
}

// CreateGTKW creates the named save file in fs.
//
func CreateGTKW(fs afero.Fs, name, dump string) (*GTKWSave, error) {
	f, err := Create(fs, name)
	if err != nil {
		return nil, err
	}
	log.WithField("file", name).Info("writing GTKWave save file")
	return NewGTKWSave(f, dump), nil
}

// Declare writes the save file.
//
func (g *GTKWSave) Declare(scope string, sigs []Signal) error {
	if _, err := fmt.Fprintf(g.w, "[*] chipsim\n[dumpfile] %q\n[timestart] 0\n", g.dump); err != nil {
		return err
	}
	for _, s := range sigs {
		var err error
		if s.Bits == 1 {
			_, err = fmt.Fprintf(g.w, "%s\n%s.%s\n", gtkwBin, scope, s.Name)
		} else {
			_, err = fmt.Fprintf(g.w, "%s\n%s.%s[%d:0]\n", gtkwHex, scope, s.Name, s.Bits-1)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Sample does nothing.
//
func (g *GTKWSave) Sample(time.Duration, []uint64) error { return nil }

// Close closes the underlying writer if it is an io.Closer.
//
func (g *GTKWSave) Close() error {
	if c, ok := g.w.(io.Closer); ok {
		g.w = nil
		return c.Close()
	}
	return nil
}
