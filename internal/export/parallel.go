package export

import (
	"image"
	"image/color/palette"
	"image/draw"
	"runtime"
	"sync"
)

// parallelFor runs fn over [0, n) split into at most workers contiguous
// chunks.
func parallelFor(n, workers int, fn func(start, end int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// quantizer dithers captured frames to the Plan 9 palette a batch at a
// time. Frames must be captured in order but dithering is independent, so
// each batch is spread over the CPUs and at most one batch of snapshots is
// held.
type quantizer struct {
	batch   []*image.RGBA
	out     []*image.Paletted
	workers int
}

func newQuantizer() *quantizer {
	w := runtime.GOMAXPROCS(0)
	return &quantizer{batch: make([]*image.RGBA, 0, w), workers: w}
}

func (q *quantizer) add(frame *image.RGBA) {
	q.batch = append(q.batch, frame)
	if len(q.batch) == cap(q.batch) {
		q.flush()
	}
}

func (q *quantizer) flush() {
	if len(q.batch) == 0 {
		return
	}
	done := make([]*image.Paletted, len(q.batch))
	parallelFor(len(q.batch), q.workers, func(start, end int) {
		for i := start; i < end; i++ {
			src := q.batch[i]
			pm := image.NewPaletted(src.Bounds(), palette.Plan9)
			draw.FloydSteinberg.Draw(pm, src.Bounds(), src, src.Bounds().Min)
			done[i] = pm
		}
	})
	q.out = append(q.out, done...)
	q.batch = q.batch[:0]
}

func (q *quantizer) frames() []*image.Paletted {
	q.flush()
	return q.out
}
