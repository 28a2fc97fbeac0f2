// Package analysis inspects recorded spring runs.
//
//   - [PhasePortrait]: offset-from-target against velocity, drawn with
//     [PhasePortraitToASCII]
//   - [DominantFrequency]: the ringing frequency found in a run by FFT, to
//     compare against [DampedFrequency] predicted from the spring constants
package analysis
