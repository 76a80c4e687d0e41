package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/evictor/evict"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const initialValue int64 = 0

// config holds the benchmark knobs (bound to CLI flags).
type config struct {
	Workers int
	Ops     int
	ReadPct int
	TTLMs   int64
	Poll    time.Duration
}

func (c config) validate() error {
	switch {
	case c.Workers <= 0:
		return errors.Errorf("workers must be > 0, got %d", c.Workers)
	case c.Ops <= 0:
		return errors.Errorf("ops must be > 0, got %d", c.Ops)
	case c.ReadPct < 0 || c.ReadPct > 100:
		return errors.Errorf("reads must be in [0..100], got %d", c.ReadPct)
	case c.Poll <= 0:
		return errors.Errorf("poll must be > 0, got %v", c.Poll)
	}
	return nil
}

// report summarizes one run.
type report struct {
	Elapsed   time.Duration
	Reads     uint64
	Writes    uint64
	Evicted   bool
	EvictedAt time.Duration // since start; valid when Evicted
	Polls     int64
	Final     int64
}

func (r report) print(w io.Writer) {
	ops := r.Reads + r.Writes
	fmt.Fprintf(w, "ops=%d (%.0f ops/s)  reads=%d  writes=%d  dur=%v\n",
		ops, float64(ops)/r.Elapsed.Seconds(), r.Reads, r.Writes, r.Elapsed)
	if r.Evicted {
		fmt.Fprintf(w, "evicted after %v (%d polls)\n", r.EvictedAt, r.Polls)
	} else {
		fmt.Fprintf(w, "not evicted (%d polls)\n", r.Polls)
	}
	fmt.Fprintln(w, "write order: verified")
}

// run drives cfg.Workers writers/readers against one entry while a poller
// evicts it when due. It returns an error if the writes do not form a
// single predecessor chain.
func run(ctx context.Context, cfg config, log *zap.Logger) (report, error) {
	if err := cfg.validate(); err != nil {
		return report{}, err
	}

	start := time.Now()
	var (
		evicted   atomic.Bool
		evictedAt atomic.Int64
	)
	owner := evict.LoggingOwner[string, int64](evict.OwnerFunc[string, int64](
		func(_ *evict.Entry[string, int64], _ bool) {
			if evicted.CompareAndSwap(false, true) {
				evictedAt.Store(int64(time.Since(start)))
			}
		}), log)

	e, err := evict.NewEntry(owner, "bench", initialValue, cfg.TTLMs)
	if err != nil {
		return report{}, errors.Wrap(err, "create entry")
	}
	log.Info("entrybench start",
		zap.Object("entry", e),
		zap.Int("workers", cfg.Workers),
		zap.Int("ops", cfg.Ops),
		zap.Int("read_pct", cfg.ReadPct))

	// Writes per worker: written value -> returned predecessor.
	pairs := make([]map[int64]int64, cfg.Workers)
	var reads, writes atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		w := w // per-iteration copy (go < 1.22)
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(w)*9973 + 1))
			local := make(map[int64]int64)
			pairs[w] = local
			for i := 0; i < cfg.Ops; i++ {
				if i&1023 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				if r.Intn(100) < cfg.ReadPct {
					_ = e.Value()
					reads.Add(1)
					continue
				}
				v := int64(w)<<32 | int64(i+1)
				local[v] = e.SetValue(v)
				writes.Add(1)
			}
			return nil
		})
	}

	// Poller: plays the scheduler, keeping its poll count in the data slot.
	pollDone := make(chan struct{})
	stopPoll := make(chan struct{})
	go func() {
		defer close(pollDone)
		tick := time.NewTicker(cfg.Poll)
		defer tick.Stop()
		var polls int64
		for {
			select {
			case <-stopPoll:
				return
			case <-ctx.Done():
				return
			case <-tick.C:
			}
			polls++
			e.SetData(polls)
			if e.ShouldEvict() {
				e.Evict(false)
				return
			}
		}
	}()

	werr := g.Wait()
	close(stopPoll)
	<-pollDone
	if werr != nil {
		return report{}, errors.Wrap(werr, "workers")
	}

	final := e.Value()
	if err := verifyChain(initialValue, final, pairs); err != nil {
		return report{}, err
	}

	rep := report{
		Elapsed:   time.Since(start),
		Reads:     reads.Load(),
		Writes:    writes.Load(),
		Evicted:   evicted.Load(),
		EvictedAt: time.Duration(evictedAt.Load()),
		Final:     final,
	}
	if p, ok := e.Data().(int64); ok {
		rep.Polls = p
	}
	log.Info("entrybench done",
		zap.Duration("elapsed", rep.Elapsed),
		zap.Uint64("writes", rep.Writes),
		zap.Bool("evicted", rep.Evicted))
	return rep, nil
}

// verifyChain checks that every write replaced a distinct predecessor and
// that following predecessors from final reaches initial after visiting
// every write exactly once.
func verifyChain(initial, final int64, perWorker []map[int64]int64) error {
	pred := make(map[int64]int64)
	seen := make(map[int64]bool)
	for _, m := range perWorker {
		for v, old := range m {
			if seen[old] {
				return errors.Errorf("value %d returned as predecessor twice", old)
			}
			seen[old] = true
			pred[v] = old
		}
	}
	if len(pred) == 0 {
		if final != initial {
			return errors.Errorf("no writes but final=%d", final)
		}
		return nil
	}
	if _, ok := pred[final]; !ok {
		return errors.Errorf("final value %d was never written", final)
	}
	steps := 0
	for cur := final; cur != initial; {
		old, ok := pred[cur]
		if !ok {
			return errors.Errorf("chain broken at %d", cur)
		}
		cur = old
		steps++
		if steps > len(pred) {
			return errors.New("predecessor chain has a cycle")
		}
	}
	if steps != len(pred) {
		return errors.Errorf("chain visits %d of %d writes", steps, len(pred))
	}
	return nil
}
