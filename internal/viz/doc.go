// Package viz renders the live wheel in the terminal: a braille-canvas
// wheel driven by the decay engine, with a bubbletea interaction loop for
// flicking, braking, and watching the spin settle.
package viz
