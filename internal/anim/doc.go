// Package anim provides the shared runtime for procedural animations.
//
// The package defines the primitives every renderer is built on:
//
//   - [Surface]: drawing target (raster image or terminal canvas)
//   - [Renderer]: per-frame update driven by elapsed time
//   - [Driver]: explicit frame loop with Start/Stop teardown
//   - [Vec3]: small 3D vector helpers used by projection code
//
// # Example
//
//	s := raster.New(640, 480)
//	g := globe.New(globe.DefaultConfig(), s, motion.Static(false))
//	d := anim.NewDriver(g, anim.WithFPS(60))
//	_ = d.Start(ctx)
//	defer d.Stop()
//
// # Thread Safety
//
// Renderers are NOT thread-safe. A [Driver] calls Frame and Resize from a
// single goroutine; callers that drive renderers by hand must do the same.
package anim
