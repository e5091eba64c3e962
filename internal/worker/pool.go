package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("任务队列已满")
	ErrPoolStopped = errors.New("任务池已停止")
)

// Job 后台任务
type Job func(ctx context.Context) error

// Pool 固定数量的后台 worker，用于异步保存等不阻塞请求的任务
type Pool struct {
	workerCount int
	jobs        chan Job
	wg          sync.WaitGroup
	mu          sync.RWMutex
	stopped     bool
	logger      *zap.Logger
}

// NewPool 创建任务池，队列容量为 worker 数的 2 倍
func NewPool(workerCount int, logger *zap.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		workerCount: workerCount,
		jobs:        make(chan Job, workerCount*2),
		logger:      logger.Named("worker"),
	}
}

// Start 启动 worker；ctx 取消后 worker 退出
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("启动任务池", zap.Int("worker_count", p.workerCount))
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Stop 关闭队列并等待已入队任务执行完毕，可重复调用
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("任务池已停止")
}

// Submit 非阻塞入队；队列满时返回 ErrQueueFull
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		p.logger.Warn("任务队列已满，任务被丢弃")
		return ErrQueueFull
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.logger.With(zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker 因 context 取消退出")
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := job(ctx); err != nil {
				log.Error("任务执行失败", zap.Error(err))
			}
		}
	}
}
