// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/db47h/chipsim"
	"github.com/pkg/errors"
)

// Trace is a sequence of port samples.
//
type Trace struct {
	Ports   chipsim.Ports
	Samples [][]uint64
}

func (t Trace) String() string {
	var b strings.Builder
	b.WriteString("step")
	for _, p := range t.Ports {
		b.WriteRune('\t')
		b.WriteString(p.Name)
	}
	for i, s := range t.Samples {
		fmt.Fprintf(&b, "\n%d", i)
		for _, v := range s {
			fmt.Fprintf(&b, "\t%#x", v)
		}
	}
	return b.String()
}

// Failure is a counterexample to an assertion.
//
type Failure struct {
	Property string
	Run      int
	Step     int
	Trace    Trace
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s failed at run %d, step %d", f.Property, f.Run, f.Step)
}

// Report is the outcome of Check.
//
type Report struct {
	Bench    string
	Seed     int64
	Runs     int
	Steps    int
	Failures []Failure
	// Covers counts the samples on which each cover property held.
	Covers map[string]int
}

// Uncovered returns the names of cover properties never hit, sorted.
//
func (r *Report) Uncovered() []string {
	var names []string
	for n, c := range r.Covers {
		if c == 0 {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Err returns an error summarizing assertion failures and missed covers, or
// nil if the bench passed.
//
func (r *Report) Err() error {
	var msgs []string
	for i := range r.Failures {
		msgs = append(msgs, r.Failures[i].String())
	}
	for _, n := range r.Uncovered() {
		msgs = append(msgs, n+" not covered")
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.Errorf("%s: %s (seed %d)", r.Bench, strings.Join(msgs, "; "), r.Seed)
}
