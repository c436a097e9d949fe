package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwaste/waste-api/internal/api/metrics"
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

const jobBuffer = 256

// ErrPoolClosed is returned for work submitted after the pool stopped.
var ErrPoolClosed = errors.New("hash pool closed")

type result struct {
	hash  domain.PasswordHash
	match bool
	err   error
}

type job struct {
	ctx    context.Context
	op     string
	fn     func(ctx context.Context) result
	out    chan result
	secret domain.PlainPassword
}

// HashPool runs password hashing and comparison on a fixed set of workers so
// that bursts of logins cannot occupy every CPU. It implements
// ports.PasswordHasher by delegating to inner. Each job hashes its own copy of
// the password, zeroed by the worker, so a caller that gives up early may zero
// its value while the job is still running.
type HashPool struct {
	inner   ports.PasswordHasher
	workers int
	jobs    chan job
	stopped chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewHashPool(numWorkers int, inner ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		inner:   inner,
		workers: numWorkers,
		jobs:    make(chan job, jobBuffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches the workers. They stop when ctx is cancelled, after which
// every submission fails with ErrPoolClosed.
func (p *HashPool) Start(ctx context.Context) {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.runWorker(ctx, i)
		}
		go func() {
			<-ctx.Done()
			close(p.stopped)
		}()
		p.log.Info().Int("workers", p.workers).Msg("hash pool started")
	})
}

// Run starts the pool and blocks until ctx is cancelled and all workers exit.
func (p *HashPool) Run(ctx context.Context) error {
	p.Start(ctx)
	<-ctx.Done()
	p.wg.Wait()
	return nil
}

// Depth returns the number of jobs waiting for a worker.
func (p *HashPool) Depth() int {
	return len(p.jobs)
}

func (p *HashPool) Hash(ctx context.Context, plain domain.PlainPassword) (domain.PasswordHash, error) {
	secret := plain.Clone()
	r := p.submit(ctx, "hash", secret, func(ctx context.Context) result {
		hash, err := p.inner.Hash(ctx, secret)
		return result{hash: hash, err: err}
	})
	return r.hash, r.err
}

func (p *HashPool) Compare(ctx context.Context, hash domain.PasswordHash, plain domain.PlainPassword) (bool, error) {
	secret := plain.Clone()
	r := p.submit(ctx, "compare", secret, func(ctx context.Context) result {
		ok, err := p.inner.Compare(ctx, hash, secret)
		return result{match: ok, err: err}
	})
	return r.match, r.err
}

// submit hands fn to a worker. Once the job is queued the worker owns secret;
// if it never gets queued, submit zeroes it.
func (p *HashPool) submit(ctx context.Context, op string, secret domain.PlainPassword, fn func(context.Context) result) result {
	j := job{ctx: ctx, op: op, fn: fn, out: make(chan result, 1), secret: secret}

	select {
	case <-p.stopped:
		secret.Zero()
		return result{err: ErrPoolClosed}
	default:
	}

	select {
	case p.jobs <- j:
		metrics.HashQueueDepth.Set(float64(p.Depth()))
	case <-ctx.Done():
		secret.Zero()
		return result{err: ctx.Err()}
	case <-p.stopped:
		secret.Zero()
		return result{err: ErrPoolClosed}
	}

	select {
	case r := <-j.out:
		return r
	case <-ctx.Done():
		return result{err: ctx.Err()}
	case <-p.stopped:
		return result{err: ErrPoolClosed}
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(p.Depth()))
			j.out <- p.process(j, id)
		}
	}
}

func (p *HashPool) process(j job, id int) result {
	defer j.secret.Zero()

	if err := j.ctx.Err(); err != nil {
		return result{err: err}
	}

	start := time.Now()
	r := j.fn(j.ctx)
	metrics.PasswordHashDuration.WithLabelValues(j.op).Observe(time.Since(start).Seconds())
	if r.err != nil {
		p.log.Error().Err(r.err).Str("op", j.op).Int("worker_id", id).Msg("password hashing failed")
	}
	return r
}
