// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verify

import (
	"context"
	"math/rand"
	"time"

	"github.com/db47h/chipsim"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Default options.
//
const (
	DefaultDepth = 32
	DefaultRuns  = 256
)

// Options configures Check and Compare.
//
type Options struct {
	Depth   int   // steps per run
	Runs    int   // number of runs
	Seed    int64 // random seed. 0 picks one from the current time
	Workers int   // circuit workers, see chipsim.NewCircuit. 0 means 1.
	// MaxFailures stops checking after that many counterexamples. 0 means 1.
	MaxFailures int
}

func (o Options) withDefaults() Options {
	if o.Depth <= 0 {
		o.Depth = DefaultDepth
	}
	if o.Runs <= 0 {
		o.Runs = DefaultRuns
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.MaxFailures <= 0 {
		o.MaxFailures = 1
	}
	return o
}

type stimulus struct {
	rng    *rand.Rand
	inputs chipsim.Ports
	values map[string][]uint64
}

// apply sets all inputs to 0 on step 0, all ones on step 1 and random values
// afterwards.
func (s *stimulus) apply(hs []*chipsim.Harness, step int) error {
	for _, p := range s.inputs {
		var v uint64
		switch step {
		case 0:
		case 1:
			v = chipsim.Mask(p.Bits)
		default:
			v = s.random(p)
		}
		for _, h := range hs {
			if err := h.Set(p.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *stimulus) random(p chipsim.Port) uint64 {
	if pool := s.values[p.Name]; len(pool) > 0 && s.rng.Intn(4) != 0 {
		return pool[s.rng.Intn(len(pool))]
	}
	return s.rng.Uint64() & chipsim.Mask(p.Bits)
}

// Check runs bench b under bounded random stimulus and reports assertion
// failures and cover hits. The returned error is only set if the bench could
// not be run or ctx was cancelled; property failures are reported through
// Report.Err.
//
func Check(ctx context.Context, b *Bench, opts Options) (*Report, error) {
	if b == nil || b.New == nil {
		return nil, errors.New("bench has no part constructor")
	}
	opts = opts.withDefaults()
	r := &Report{Bench: b.Name, Seed: opts.Seed, Covers: make(map[string]int)}
	var asserts, assumes, covers []Property
	for _, p := range b.Properties {
		switch p.Kind {
		case Assert:
			asserts = append(asserts, p)
		case Assume:
			assumes = append(assumes, p)
		case Cover:
			covers = append(covers, p)
			r.Covers[p.Name] = 0
		default:
			return nil, errors.Errorf("property %s: invalid kind %d", p.Name, p.Kind)
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	start := time.Now()

runs:
	for run := 0; run < opts.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		h, err := newHarness(b.New, opts.Workers)
		if err != nil {
			return r, errors.Wrapf(err, "%s: run %d", b.Name, run)
		}
		st := &stimulus{rng: rng, inputs: h.Spec().Ports.Inputs(), values: b.Values}
		hist := newHistory(h.Spec().Ports)
		r.Runs++

	steps:
		for step := 0; step < opts.Depth; step++ {
			if err = st.apply([]*chipsim.Harness{h}, step); err == nil {
				err = h.Settle()
			}
			if err != nil {
				h.Dispose()
				return r, errors.Wrapf(err, "%s: run %d, step %d", b.Name, run, step)
			}
			hist.push(h.Values())
			r.Steps++
			for _, p := range assumes {
				if !p.Check(hist) {
					break steps
				}
			}
			for _, p := range asserts {
				if !p.Check(hist) {
					f := Failure{Property: p.Name, Run: run, Step: step, Trace: hist.Trace()}
					log.WithFields(log.Fields{"bench": b.Name, "property": p.Name}).
						Debugf("counterexample:\n%v", f.Trace)
					r.Failures = append(r.Failures, f)
					if len(r.Failures) >= opts.MaxFailures {
						h.Dispose()
						break runs
					}
					break steps
				}
			}
			for _, p := range covers {
				if p.Check(hist) {
					r.Covers[p.Name]++
				}
			}
		}
		h.Dispose()
	}

	log.WithFields(log.Fields{
		"bench":    b.Name,
		"seed":     r.Seed,
		"runs":     r.Runs,
		"steps":    r.Steps,
		"failures": len(r.Failures),
		"elapsed":  time.Since(start),
	}).Info("bounded check done")
	return r, nil
}

func newHarness(newSpec func() (*chipsim.PartSpec, error), workers int) (*chipsim.Harness, error) {
	spec, err := newSpec()
	if err != nil {
		return nil, err
	}
	return chipsim.NewHarness(workers, spec)
}

// Compare drives two parts with the same random inputs and reports every
// output mismatch as a failure of a property named after the output port.
// Both parts must have the same ports.
//
func Compare(ctx context.Context, a, b func() (*chipsim.PartSpec, error), opts Options) (*Report, error) {
	opts = opts.withDefaults()
	r := &Report{Seed: opts.Seed}
	rng := rand.New(rand.NewSource(opts.Seed))

	for run := 0; run < opts.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		ha, err := newHarness(a, opts.Workers)
		if err != nil {
			return r, err
		}
		hb, err := newHarness(b, opts.Workers)
		if err != nil {
			ha.Dispose()
			return r, err
		}
		if run == 0 {
			r.Bench = ha.Spec().Name + "/" + hb.Spec().Name
			if err = samePorts(ha.Spec().Ports, hb.Spec().Ports); err != nil {
				ha.Dispose()
				hb.Dispose()
				return r, errors.Wrap(err, r.Bench)
			}
		}
		failed := compareRun(r, rng, ha, hb, run, opts.Depth)
		ha.Dispose()
		hb.Dispose()
		if failed != nil {
			return r, failed
		}
		r.Runs++
		if len(r.Failures) >= opts.MaxFailures {
			break
		}
	}
	return r, nil
}

func compareRun(r *Report, rng *rand.Rand, ha, hb *chipsim.Harness, run, depth int) error {
	ports := ha.Spec().Ports
	st := &stimulus{rng: rng, inputs: ports.Inputs()}
	hist := newHistory(ports)
	for step := 0; step < depth; step++ {
		if err := st.apply([]*chipsim.Harness{ha, hb}, step); err != nil {
			return err
		}
		if err := ha.Settle(); err != nil {
			return errors.Wrapf(err, "run %d, step %d", run, step)
		}
		if err := hb.Settle(); err != nil {
			return errors.Wrapf(err, "run %d, step %d", run, step)
		}
		va, vb := ha.Values(), hb.Values()
		hist.push(va)
		r.Steps++
		for i, p := range ports {
			if p.Dir == chipsim.DirOut && va[i] != vb[i] {
				r.Failures = append(r.Failures, Failure{
					Property: "output " + p.Name,
					Run:      run,
					Step:     step,
					Trace:    hist.Trace(),
				})
				return nil
			}
		}
	}
	return nil
}

func samePorts(a, b chipsim.Ports) error {
	if len(a) != len(b) {
		return errors.Errorf("port count mismatch: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return errors.Errorf("port %d mismatch: %v != %v", i, a[i], b[i])
		}
	}
	return nil
}

// Elaborate returns the netlist of a harness around a fresh instance of the
// bench part.
//
func Elaborate(b *Bench) (*chipsim.Netlist, error) {
	if b == nil || b.New == nil {
		return nil, errors.New("bench has no part constructor")
	}
	h, err := newHarness(b.New, 1)
	if err != nil {
		return nil, errors.Wrap(err, b.Name)
	}
	defer h.Dispose()
	return h.Circuit().Netlist(), nil
}
