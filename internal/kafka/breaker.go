package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
)

var ErrBreakerOpen = errors.New("kafka publisher: circuit open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Breaker stops calling a failing broker after threshold consecutive errors
// and lets a single probe through once openFor has elapsed.
type Breaker struct {
	next      Publisher
	threshold int
	openFor   time.Duration
	now       func() time.Time

	mu        sync.Mutex
	st        breakerState
	fails     int
	nextTryAt time.Time
	probing   bool
}

func NewBreaker(next Publisher, threshold int, openFor time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	return &Breaker{next: next, threshold: threshold, openFor: openFor, now: time.Now}
}

func (b *Breaker) acquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.st {
	case stateOpen:
		if b.now().Before(b.nextTryAt) || b.probing {
			return false
		}
		b.st = stateHalfOpen
		b.probing = true
		return true
	case stateHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.st = stateClosed
		b.fails = 0
		b.probing = false
		return
	}
	if b.st == stateHalfOpen {
		b.st = stateOpen
		b.nextTryAt = b.now().Add(b.openFor)
		b.probing = false
		return
	}
	b.fails++
	if b.fails >= b.threshold {
		b.st = stateOpen
		b.nextTryAt = b.now().Add(b.openFor)
	}
}

func (b *Breaker) PublishCanceled(ctx context.Context, reportID string, canceled []model.CanceledCustomer) error {
	if !b.acquire() {
		return ErrBreakerOpen
	}
	err := b.next.PublishCanceled(ctx, reportID, canceled)
	// a canceled request says nothing about broker health
	if errors.Is(err, context.Canceled) {
		b.mu.Lock()
		b.probing = false
		if b.st == stateHalfOpen {
			b.st = stateOpen
		}
		b.mu.Unlock()
		return err
	}
	b.record(err)
	return err
}

func (b *Breaker) Close() error { return b.next.Close() }
