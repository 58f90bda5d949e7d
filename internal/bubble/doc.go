// Package bubble provides the particle model and frame loop for the ambient
// "neon bubble" background animations.
//
// The package is host-agnostic. A host supplies a [Surface] to size, an
// [Environment] describing the device, a [Scheduler] that calls back once per
// display frame and a [Renderer] that paints the frame:
//
//   - [Particle]: one bubble (position, radius, velocity, tint, depth, bob)
//   - [Params]: per-variant ranges and constants
//   - [Animator]: seed → step → render → reschedule loop with an explicit
//     Start/Stop lifecycle
//   - [FrameQueue]: a manually fired [Scheduler] for tests, terminals,
//     windows and headless runs
//
// # Example
//
//	surface := bubble.NewStaticSurface(800, 600)
//	queue := bubble.NewFrameQueue()
//	a, _ := bubble.New(surface, bubble.DefaultParams(bubble.Fullscreen),
//	    bubble.WithScheduler(queue))
//	a.Start()
//	for i := 0; i < 60; i++ {
//	    queue.Fire()
//	}
//
// # Thread Safety
//
// Animators are NOT safe for concurrent use. All calls, including input
// handlers and scheduled frames, must come from the host's single event loop.
package bubble
