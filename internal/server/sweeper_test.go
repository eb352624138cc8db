package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type countingSweeper struct {
	sweeps atomic.Int64
}

func (c *countingSweeper) Sweep(context.Context) (int, error) {
	c.sweeps.Add(1)
	return 2, nil
}

func TestSweeperRunsPeriodically(t *testing.T) {
	store := &countingSweeper{}
	sw := NewSweeper(store, 20*time.Millisecond, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() {
		done <- sw.Start()
	}()

	deadline := time.After(2 * time.Second)
	for store.sweeps.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not run in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	sw.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop in time")
	}
}

func TestSweeperStopIdempotent(t *testing.T) {
	sw := NewSweeper(&countingSweeper{}, time.Minute, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() {
		done <- sw.Start()
	}()

	sw.Stop()
	sw.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop in time")
	}
}
