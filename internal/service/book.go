package service

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"academic-calendar/backend/internal/calendar"
)

var ErrBatchNotFound = errors.New("批次不存在")

// Book 内存中的批次簿：batch id → Batch。
//
// 所有修改在同一把锁内完成（含级联），对外只返回副本。
type Book struct {
	mu      sync.Mutex
	batches map[int]*calendar.Batch
}

// NewBook 创建批次簿并放入默认批次
func NewBook() *Book {
	b := &Book{}
	b.Reset()
	return b
}

// Reset 恢复为默认批次
func (b *Book) Reset() {
	b.Replace(calendar.DefaultBatches())
}

// Replace 整体替换
func (b *Book) Replace(list []*calendar.Batch) {
	m := make(map[int]*calendar.Batch, len(list))
	for _, batch := range list {
		m[batch.ID] = batch.Clone()
	}
	b.mu.Lock()
	b.batches = m
	b.mu.Unlock()
}

// Get 按 id 获取副本
func (b *Book) Get(id int) (*calendar.Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch, ok := b.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return batch.Clone(), nil
}

// List 按 id 升序返回副本；query 非空时按名称不区分大小写的子串过滤
func (b *Book) List(query string) []*calendar.Batch {
	q := strings.ToLower(strings.TrimSpace(query))

	b.mu.Lock()
	out := make([]*calendar.Batch, 0, len(b.batches))
	for _, batch := range b.batches {
		if q != "" && !strings.Contains(strings.ToLower(batch.Name), q) {
			continue
		}
		out = append(out, batch.Clone())
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Mutate 在锁内修改批次，fn 返回错误时丢弃修改
func (b *Book) Mutate(id int, fn func(batch *calendar.Batch) error) (*calendar.Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch, ok := b.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	work := batch.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	b.batches[id] = work
	return work.Clone(), nil
}

// Add 新增批次，id 为当前最大 id + 1
func (b *Book) Add(t calendar.BatchType) *calendar.Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := 1
	for id := range b.batches {
		if id >= next {
			next = id + 1
		}
	}
	batch := calendar.NewBatch(next, t)
	b.batches[next] = batch
	return batch.Clone()
}

// Remove 删除批次（仅内存）
func (b *Book) Remove(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.batches[id]; !ok {
		return ErrBatchNotFound
	}
	delete(b.batches, id)
	return nil
}
