// Package viz animates bubbles in the terminal.
//
// The package implements a live view and a launcher on Bubble Tea:
//
//   - [Model]: live animation of one variant with a stats panel
//   - [Canvas]: braille dot canvas; one cell covers 8x16 CSS pixels
//   - Theme selection with 4 built-in colour schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume the frame loop
//	V      - Toggle page visibility
//	R      - Restart (reseed)
//	T      - Cycle colour themes
//	Arrows - Tilt (parallax)
//	C      - Centre the parallax target
//	G      - Toggle GIF recording
//	?      - Show help overlay
//
// Mouse motion drives the parallax target and terminal focus changes stand
// in for page visibility.
//
// # Recording
//
// The G key records frames to an animated GIF in the current directory.
package viz
