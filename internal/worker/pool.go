package worker

import (
	"log"
	"sort"
	"sync"

	"btcsignal-go/internal/indicator"
	"btcsignal-go/internal/model"
	"btcsignal-go/internal/strategy"
)

// ReplayPool evaluates the signal engine at many candle indices in parallel
type ReplayPool struct {
	workers  int
	series   model.Series
	ip       indicator.Params
	sp       strategy.Params
	jobs     chan int
	results  chan strategy.ReplayPoint
	wg       sync.WaitGroup
	progress func()
}

// NewPool creates a new replay pool over a read-only series
func NewPool(workers int, series model.Series, ip indicator.Params, sp strategy.Params) *ReplayPool {
	if workers < 1 {
		workers = 1
	}
	return &ReplayPool{
		workers: workers,
		series:  series,
		ip:      ip,
		sp:      sp,
		jobs:    make(chan int, 100),
		results: make(chan strategy.ReplayPoint, len(series)),
	}
}

// OnProgress registers a callback invoked once per finished job
func (p *ReplayPool) OnProgress(fn func()) {
	p.progress = fn
}

// Start launches the worker goroutines
func (p *ReplayPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *ReplayPool) worker(id int) {
	defer p.wg.Done()

	for idx := range p.jobs {
		point, err := strategy.EvaluateAt(p.series, idx, p.ip, p.sp)
		if p.progress != nil {
			p.progress()
		}
		if err != nil {
			log.Printf("⚠️  Worker %d: Error evaluating candle %d: %v", id, idx, err)
			continue
		}
		if point.Signal != nil {
			p.results <- point
		}
	}
}

// AddJob queues one candle index
func (p *ReplayPool) AddJob(idx int) {
	p.jobs <- idx
}

// Wait closes the job queue, waits for the workers and returns every point
// that produced a signal, ordered by candle index
func (p *ReplayPool) Wait() []strategy.ReplayPoint {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)

	points := make([]strategy.ReplayPoint, 0, len(p.results))
	for point := range p.results {
		points = append(points, point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Index < points[j].Index })
	return points
}

// Run evaluates every index in [from, to) and returns the signalling points
func (p *ReplayPool) Run(from, to int) []strategy.ReplayPoint {
	p.Start()
	for idx := from; idx < to; idx++ {
		p.AddJob(idx)
	}
	return p.Wait()
}

// Transitions keeps only the points where the signal type differs from the
// previous point
func Transitions(points []strategy.ReplayPoint) []strategy.ReplayPoint {
	out := make([]strategy.ReplayPoint, 0)
	var last model.SignalType
	for _, pt := range points {
		if pt.Signal.Signal == last {
			continue
		}
		last = pt.Signal.Signal
		out = append(out, pt)
	}
	return out
}
