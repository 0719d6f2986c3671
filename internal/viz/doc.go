// Package viz hosts the blob in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live blob, driven by bubbletea ticks and mouse motion
//   - [Picker]: preset menu with parameter editing before launch
//   - [Canvas]: Braille-based pixel canvas implementing the drawing surface
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Mouse - Poke the blob
//	Space - Pause/Resume simulation
//	R     - Reset to rest
//	Tab   - Cycle parameters, Up/Down to tune
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	S     - Save an SVG snapshot
//	?     - Show help overlay
//
// # Recording
//
// Recordings rasterize the same contour the canvas draws and are saved as
// blob.gif in the output directory.
package viz
