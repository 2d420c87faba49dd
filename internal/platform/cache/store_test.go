package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	if _, ok := store.Get(ctx, "ucl"); ok {
		t.Fatal("expected miss on empty store")
	}

	store.Set(ctx, "ucl", 42)
	v, ok := store.Get(ctx, "ucl")
	if !ok || v.(int) != 42 {
		t.Fatalf("got %v (hit=%v), want 42", v, ok)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}

	store.Delete(ctx, "ucl")
	if _, ok := store.Get(ctx, "ucl"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_IgnoresEmptyKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "", "ignored")
	if store.Len() != 0 {
		t.Fatalf("Len = %d, want 0", store.Len())
	}
	if _, ok := store.Get(ctx, ""); ok {
		t.Fatal("empty key should never hit")
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	store.Set(ctx, "ucl", "table")
	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "ucl"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry not dropped, Len = %d", store.Len())
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)

	store.Set(ctx, "ucl", "table")
	time.Sleep(15 * time.Millisecond)

	if _, ok := store.Get(ctx, "ucl"); !ok {
		t.Fatal("zero TTL entry should not expire")
	}
}

func TestStore_GetOrLoad_CoalescesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("source down")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(ctx, "k", loader); !errors.Is(err, boom) {
		t.Fatalf("first call error = %v, want %v", err, boom)
	}
	v, err := store.GetOrLoad(ctx, "k", loader)
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if v.(string) != "recovered" {
		t.Fatalf("got %v, want recovered", v)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_GetOrLoad_RequiresLoader(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	if _, err := store.GetOrLoad(context.Background(), "k", nil); err == nil {
		t.Fatal("expected error for nil loader")
	}
}
