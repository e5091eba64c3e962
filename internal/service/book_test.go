package service

import (
	"errors"
	"sync"
	"testing"

	"academic-calendar/backend/internal/calendar"
)

func TestBook_GetReturnsCopy(t *testing.T) {
	book := NewBook()

	b, err := book.Get(1)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	b.Name = "mutated"
	b.Semesters[0].Name = "mutated"

	again, _ := book.Get(1)
	if again.Name != "Batch 1" || again.Semesters[0].Name != "1st Semester" {
		t.Error("修改副本不应影响批次簿")
	}
}

func TestBook_MutateErrorDiscardsChanges(t *testing.T) {
	book := NewBook()

	_, err := book.Mutate(1, func(b *calendar.Batch) error {
		b.Name = "half-done"
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("期望返回 fn 的错误")
	}
	b, _ := book.Get(1)
	if b.Name != "Batch 1" {
		t.Errorf("失败的修改应被丢弃，实际=%s", b.Name)
	}
}

func TestBook_ConcurrentAddsGetDistinctIDs(t *testing.T) {
	book := NewBook()

	var wg sync.WaitGroup
	ids := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- book.Add(calendar.Weekday).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("重复的批次 id: %d", id)
		}
		seen[id] = true
	}
	if len(book.List("")) != 22 {
		t.Errorf("期望 22 个批次，实际=%d", len(book.List("")))
	}
}

func TestBook_Remove(t *testing.T) {
	book := NewBook()

	if err := book.Remove(2); err != nil {
		t.Fatalf("Remove 失败: %v", err)
	}
	if err := book.Remove(2); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("期望 ErrBatchNotFound，实际: %v", err)
	}
}
