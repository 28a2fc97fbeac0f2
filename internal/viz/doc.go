// Package viz renders springs in the terminal.
//
// [Model] is a Bubble Tea program that moves a dot towards a target with one
// spring per axis. Every tick flushes the frame queue the springs schedule
// their callbacks on, so the view exercises the same code path a headless
// run does, only against the wall clock.
//
// [Canvas] is a braille dot canvas (2x4 dots per cell) used for the dot, its
// trail and the target marker; it can also be saved as SVG.
package viz
