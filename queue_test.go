package endpoint

import (
	"sync"
	"testing"
)

func TestMessageQueue_FIFO(t *testing.T) {
	q := newMessageQueue()

	for i := 0; i < 5; i++ {
		q.enqueue(i)
	}

	for i := 0; i < 5; i++ {
		msg, ok := q.dequeue()
		if !ok {
			t.Fatalf("dequeue %d: expected a message", i)
		}
		if msg.(int) != i {
			t.Errorf("dequeue %d = %v, want %d", i, msg, i)
		}
	}

	if _, ok := q.dequeue(); ok {
		t.Error("dequeue on empty queue returned ok=true")
	}
}

func TestMessageQueue_TakeAll(t *testing.T) {
	q := newMessageQueue()
	for i := 0; i < 3; i++ {
		q.enqueue(i)
	}

	all := q.takeAll()
	if len(all) != 3 {
		t.Fatalf("takeAll returned %d messages, want 3", len(all))
	}
	for i, msg := range all {
		if msg.(int) != i {
			t.Errorf("takeAll[%d] = %v, want %d", i, msg, i)
		}
	}

	if q.length() != 0 {
		t.Errorf("length after takeAll = %d, want 0", q.length())
	}

	if all2 := q.takeAll(); all2 != nil {
		t.Errorf("takeAll on empty queue = %v, want nil", all2)
	}
}

func TestMessageQueue_EnqueueFromGoroutineThenDrain(t *testing.T) {
	q := newMessageQueue()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.enqueue(i)
		}
	}()
	wg.Wait()

	seen := 0
	for {
		_, ok := q.dequeue()
		if !ok {
			break
		}
		seen++
	}
	if seen != n {
		t.Errorf("saw %d messages, want %d", seen, n)
	}
}
