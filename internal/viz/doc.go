// Package viz draws Lorenz trajectories in the terminal.
//
//   - [Canvas]: braille pixel canvas, 2x4 dots per character cell
//   - [Preview]: Bubble Tea model that replays the growing-prefix chunks
//     the way the GIF does
//
// # Key Bindings
//
//	Space - Pause/Resume
//	←/→   - Step one frame while paused
//	A/D   - Rotate the camera azimuth
//	+/-   - Faster/slower playback
//	R     - Restart
//	Q     - Quit
package viz
