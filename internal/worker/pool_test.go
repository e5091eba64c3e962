package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(2, zap.NewNop())
	p.Start(context.Background())

	var n atomic.Int32
	for i := 0; i < 4; i++ {
		if err := p.Submit(func(context.Context) error {
			n.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("Submit 失败: %v", err)
		}
	}
	p.Stop()

	if n.Load() != 4 {
		t.Errorf("期望执行 4 个任务，实际=%d", n.Load())
	}
}

func TestPool_QueueFull(t *testing.T) {
	// 未启动 worker，队列容量 2
	p := NewPool(1, zap.NewNop())
	noop := func(context.Context) error { return nil }

	for i := 0; i < 2; i++ {
		if err := p.Submit(noop); err != nil {
			t.Fatalf("第 %d 个任务入队失败: %v", i+1, err)
		}
	}
	if err := p.Submit(noop); !errors.Is(err, ErrQueueFull) {
		t.Errorf("期望 ErrQueueFull，实际: %v", err)
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	if err := p.Submit(func(context.Context) error { return nil }); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("期望 ErrPoolStopped，实际: %v", err)
	}
}

func TestPool_FailingJobDoesNotStopWorker(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	p.Start(context.Background())

	done := make(chan struct{})
	_ = p.Submit(func(context.Context) error { return errors.New("boom") })
	_ = p.Submit(func(context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("失败任务之后的任务未被执行")
	}
	p.Stop()
}
