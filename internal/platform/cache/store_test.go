package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(15 * time.Millisecond)
		return "team:csk", nil
	}

	const workers = 24
	results := make([]any, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		idx := i
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "team:key:chennaisuperkings", loader)
			if err != nil {
				t.Errorf("GetOrLoad failed: %v", err)
				return
			}
			results[idx] = v
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
	for i, v := range results {
		if got, _ := v.(string); got != "team:csk" {
			t.Fatalf("worker %d got %v, want team:csk", i, v)
		}
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "match:id:ext-1", loader); err != nil {
			t.Fatalf("GetOrLoad attempt %d failed: %v", i, err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_DeleteInvalidates(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "team:key:mumbaiindians", "mi")
	if _, ok := store.Get(ctx, "team:key:mumbaiindians"); !ok {
		t.Fatal("expected value after Set")
	}

	store.Delete(ctx, "team:key:mumbaiindians")
	if _, ok := store.Get(ctx, "team:key:mumbaiindians"); ok {
		t.Fatal("expected miss after Delete")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "match:id:ext-1", 1)
	store.Set(ctx, "match:id:ext-2", 2)
	store.Set(ctx, "team:list", 3)

	store.DeletePrefix(ctx, "match:id:")

	if _, ok := store.Get(ctx, "match:id:ext-1"); ok {
		t.Fatal("expected match:id:ext-1 evicted")
	}
	if _, ok := store.Get(ctx, "match:id:ext-2"); ok {
		t.Fatal("expected match:id:ext-2 evicted")
	}
	if _, ok := store.Get(ctx, "team:list"); !ok {
		t.Fatal("expected team:list untouched")
	}
}
