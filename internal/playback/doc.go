// Package playback drives fade-in and fade-out playback of media samples.
//
// A Sample owns one media Handle and two timer slots: the ramp slot holds the
// volume ramp ticker, and the deferred slot holds either the start debounce
// or the scheduled fade-out. Starting a ramp always clears the ramp slot
// first, so at most one ramp runs per Sample. All methods must be called
// from the scheduler's callback thread.
//
// Ramps take exactly 100 ticks. The tick period is the fade duration times
// ten milliseconds, so a one second fade ticks every 10ms. The scheduled
// fade-out fires (remaining - fadeOut) seconds after the fade-in begins, so
// the fade completes at the natural end of the segment.
package playback
