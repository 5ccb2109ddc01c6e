// Package schedule provides the cooperative timer model used by playback.
//
// Every callback scheduled through a Scheduler runs on a single logical
// thread of control: the Loop goroutine for real time, or the caller of
// Manual.Advance for virtual time. Callbacks therefore never race with each
// other and the state they touch needs no locking.
package schedule
