// Package viz provides terminal-based hosting for the animation renderers.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: runs one renderer on a canvas, driven by tea.Tick
//   - [Canvas]: Braille-based surface with per-cell brightness
//   - Theme selection with built-in color schemes and an "auto" theme
//     following the desktop appearance
//
// # Key Bindings
//
//	Space - Pause/Resume
//	M     - Toggle reduced motion
//	T     - Cycle color themes
//	R     - Restart text reveal
//	?     - Show help overlay
//	Esc   - Back to menu
package viz
