// Package frame abstracts the host's per-frame callback facility.
//
// Animation code depends only on [Scheduler]: it registers a [Callback] for
// the next frame and may cancel it through the returned [Handle]. [Queue] is a
// request-animation-frame style implementation flushed by whoever owns the
// frame loop: a [Driver] for headless runs, or a Bubble Tea tick in the live
// view. [ManualClock] makes time a test input.
package frame
