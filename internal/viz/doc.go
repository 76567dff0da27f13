// Package viz draws the arena in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, stepping a [sim.World] at the display rate
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Viewport]: maps arena pixels onto canvas sub-pixels
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the arena
//	Tab   - Select a parameter, Up/Down to tune it
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]/   - Time travel (rewind/forward)
//
// The left mouse button picks up the disk under the cursor. Dragging moves
// it and releasing throws it with the drag velocity.
package viz
