// Package viz draws the swarm in a terminal.
//
// [Model] is a Bubble Tea program that advances the simulation by real
// elapsed time on every tick and renders particles onto a Braille [Canvas],
// tinting each cell with the velocity colour of its most recent particle.
// A side panel shows the frame counter, a smoothed mean speed and its
// recent history.
//
// # Key Bindings
//
//	Q, Esc, Ctrl+C - Quit
package viz
