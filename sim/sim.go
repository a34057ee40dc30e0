// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim runs scripted stimulus scenarios against a part and records
// its ports over simulated time.
//
package sim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/db47h/chipsim"
	"github.com/db47h/chipsim/trace"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StepKind is the kind of a scenario step.
//
type StepKind int

// Step kinds.
//
const (
	SetStep StepKind = iota
	DelayStep
	ExpectStep
)

// Step is a scenario step.
//
type Step struct {
	Kind  StepKind
	Port  string
	Value uint64
	Delay time.Duration
}

func (s Step) String() string {
	switch s.Kind {
	case SetStep:
		return fmt.Sprintf("set %s = %#x", s.Port, s.Value)
	case DelayStep:
		return "delay " + s.Delay.String()
	case ExpectStep:
		return fmt.Sprintf("expect %s == %#x", s.Port, s.Value)
	}
	return "invalid step"
}

// Scenario is a scripted list of input assignments, delays and output
// checks.
//
type Scenario struct {
	Name  string
	Steps []Step
}

// NewScenario returns an empty scenario.
//
func NewScenario(name string) *Scenario {
	return &Scenario{Name: name}
}

// Set appends an input assignment. It takes effect at the current time.
//
func (s *Scenario) Set(port string, v uint64) *Scenario {
	s.Steps = append(s.Steps, Step{Kind: SetStep, Port: port, Value: v})
	return s
}

// Delay appends a delay. Pending assignments are propagated and recorded
// before time advances.
//
func (s *Scenario) Delay(d time.Duration) *Scenario {
	s.Steps = append(s.Steps, Step{Kind: DelayStep, Delay: d})
	return s
}

// Expect appends a check of a port value at the current time.
//
func (s *Scenario) Expect(port string, v uint64) *Scenario {
	s.Steps = append(s.Steps, Step{Kind: ExpectStep, Port: port, Value: v})
	return s
}

// Options configures Run.
//
type Options struct {
	Workers  int            // circuit workers, see chipsim.NewCircuit
	Recorder trace.Recorder // optional. Run does not close it.
	// SettleSteps is the step budget of each settle. See Circuit.Settle.
	SettleSteps int
}

// Mismatch is a failed expectation.
//
type Mismatch struct {
	Time time.Duration
	Port string
	Want uint64
	Got  uint64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("at %v: %s = %#x, want %#x", m.Time, m.Port, m.Got, m.Want)
}

// Result is the outcome of a scenario run.
//
type Result struct {
	Scenario string
	Time     time.Duration // simulated time at the end of the run
	Steps    uint          // circuit steps
	Values   map[string]uint64
	Failures []Mismatch
}

// Err returns an error listing failed expectations, or nil.
//
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = f.String()
	}
	return errors.Errorf("%s: %d failed expectations: %s", r.Scenario, len(r.Failures), strings.Join(msgs, "; "))
}

type runner struct {
	h   *chipsim.Harness
	rec trace.Recorder
	now time.Duration
}

// observe settles the circuit and records all ports at the current time.
func (r *runner) observe() error {
	if err := r.h.Settle(); err != nil {
		return errors.Wrapf(err, "at %v", r.now)
	}
	if r.rec != nil {
		return r.rec.Sample(r.now, r.h.Values())
	}
	return nil
}

// Run runs scenario sc against part spec. Errors in the scenario itself
// (unknown ports, unstable circuit, recorder errors) or context cancellation
// are returned as errors; failed expectations are reported in the Result.
//
func Run(ctx context.Context, spec *chipsim.PartSpec, sc *Scenario, opts Options) (*Result, error) {
	h, err := chipsim.NewHarness(opts.Workers, spec)
	if err != nil {
		return nil, err
	}
	defer h.Dispose()
	h.SetSettleSteps(opts.SettleSteps)

	r := &runner{h: h, rec: opts.Recorder}
	if r.rec != nil {
		if err = r.rec.Declare(spec.Name, trace.Signals(spec.Ports)); err != nil {
			return nil, err
		}
	}
	res := &Result{Scenario: sc.Name}
	logger := log.WithFields(log.Fields{"scenario": sc.Name, "part": spec.Name})

	for i, st := range sc.Steps {
		if err = ctx.Err(); err != nil {
			return res, err
		}
		switch st.Kind {
		case SetStep:
			err = h.Set(st.Port, st.Value)
		case DelayStep:
			if st.Delay < 0 {
				err = errors.New("negative delay")
				break
			}
			if err = r.observe(); err == nil {
				r.now += st.Delay
				logger.WithField("time", r.now).Debug("delay")
			}
		case ExpectStep:
			if err = r.observe(); err != nil {
				break
			}
			var got uint64
			if got, err = h.Get(st.Port); err == nil && got != st.Value {
				m := Mismatch{Time: r.now, Port: st.Port, Want: st.Value, Got: got}
				logger.Warn(m.String())
				res.Failures = append(res.Failures, m)
			}
		default:
			err = errors.Errorf("invalid step kind %d", st.Kind)
		}
		if err != nil {
			return res, errors.Wrapf(err, "%s: step %d (%v)", sc.Name, i, st)
		}
	}
	if err = r.observe(); err != nil {
		return res, errors.Wrap(err, sc.Name)
	}

	res.Time = r.now
	res.Steps = h.Circuit().Steps()
	res.Values = make(map[string]uint64, len(spec.Ports))
	for i, v := range h.Values() {
		res.Values[spec.Ports[i].Name] = v
	}
	logger.WithFields(log.Fields{
		"time":     res.Time,
		"steps":    res.Steps,
		"failures": len(res.Failures),
	}).Info("scenario done")
	return res, nil
}
