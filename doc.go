/*
Package chipsim provides a pin-level simulator for behavioral models of
memory-mapped integrated circuits (static RAMs, EEPROMs, latches) and an API
to wire such models to Go code for simulation and verification.

A part is described by a PartSpec: a name, an ordered list of ports and a
Mount function that returns the components updating the part's outputs. Every
pin is a boolean wire; buses are groups of pins named bus[0], bus[1], etc.
Parts are connected to wires with connection strings:

	sram.Spec().NewPart("addr=a, data_in=din, data_out=dout, oe_n=oe, we_n=we")

A Circuit double buffers the wire states: each Step, every component reads the
current frame and writes the next one. Settle steps the circuit until no wire
changes, which is how a harness observes combinational outputs for the current
inputs. Harness wraps a single part with Go-driven inputs and outputs.

Device models live in the ic subpackage.
*/
package chipsim
