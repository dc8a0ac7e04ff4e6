package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotacarga/freight-crm/internal/model"
)

func countingFetch(s *model.StageFormSchema, err error) (FetchFunc, *int32) {
	var calls int32
	return func(ctx context.Context, stageID string) (*model.StageFormSchema, error) {
		atomic.AddInt32(&calls, 1)
		return s, err
	}, &calls
}

func weightSchema() *model.StageFormSchema {
	return &model.StageFormSchema{Fields: []model.SchemaField{
		{Key: "peso", Label: "Peso", Type: model.FieldNumber},
	}}
}

func TestGetEmptyStageID(t *testing.T) {
	fetch, calls := countingFetch(weightSchema(), nil)
	c := NewSchemaCache(nil, time.Minute, fetch)

	s, err := c.Get(context.Background(), "")
	if err != nil || s != nil {
		t.Errorf("Get(\"\") = %v, %v, want nil, nil", s, err)
	}
	if *calls != 0 {
		t.Errorf("empty stage id reached the fetcher %d times", *calls)
	}
}

func TestGetCachesWithinTTL(t *testing.T) {
	fetch, calls := countingFetch(weightSchema(), nil)
	c := NewSchemaCache(nil, time.Minute, fetch)
	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		s, err := c.Get(ctx, "stage-1")
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
		if s == nil || len(s.Fields) != 1 || s.Fields[0].Key != "peso" {
			t.Fatalf("Get #%d returned %+v", i, s)
		}
	}
	if *calls != 1 {
		t.Errorf("fetcher called %d times within the TTL, want 1", *calls)
	}

	// past the freshness window the next read fetches again
	clock = clock.Add(2 * time.Minute)
	if _, err := c.Get(ctx, "stage-1"); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if *calls != 2 {
		t.Errorf("fetcher called %d times after expiry, want 2", *calls)
	}
}

func TestGetCachesAbsentSchema(t *testing.T) {
	fetch, calls := countingFetch(nil, nil)
	c := NewSchemaCache(nil, time.Minute, fetch)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		s, err := c.Get(ctx, "stage-1")
		if err != nil || s != nil {
			t.Fatalf("Get #%d = %v, %v, want nil, nil", i, s, err)
		}
	}
	if *calls != 1 {
		t.Errorf("absent schema fetched %d times, want 1", *calls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fetch, calls := countingFetch(weightSchema(), nil)
	c := NewSchemaCache(nil, time.Minute, fetch)

	ctx := context.Background()
	if _, err := c.Get(ctx, "stage-1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	c.Invalidate(ctx, "stage-1")
	if _, err := c.Get(ctx, "stage-1"); err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if *calls != 2 {
		t.Errorf("fetcher called %d times, want 2", *calls)
	}

	// entries are keyed per stage; invalidation does not touch others
	if _, err := c.Get(ctx, "stage-2"); err != nil {
		t.Fatalf("Get stage-2: %v", err)
	}
	c.Invalidate(ctx, "stage-1")
	if _, err := c.Get(ctx, "stage-2"); err != nil {
		t.Fatalf("Get stage-2 again: %v", err)
	}
	if *calls != 3 {
		t.Errorf("fetcher called %d times, want 3", *calls)
	}
}

func TestGetCoalescesConcurrentFetches(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, stageID string) (*model.StageFormSchema, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return weightSchema(), nil
	}
	c := NewSchemaCache(nil, time.Minute, fetch)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), "stage-1"); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	// let the callers pile up behind the in-flight fetch before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetcher called %d times for concurrent reads, want 1", got)
	}
}

func TestGetPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("db down")
	fetch, calls := countingFetch(nil, wantErr)
	c := NewSchemaCache(nil, time.Minute, fetch)

	ctx := context.Background()
	if _, err := c.Get(ctx, "stage-1"); !errors.Is(err, wantErr) {
		t.Fatalf("Get = %v, want %v", err, wantErr)
	}
	// errors are not cached; the next read tries again
	if _, err := c.Get(ctx, "stage-1"); !errors.Is(err, wantErr) {
		t.Fatalf("second Get = %v, want %v", err, wantErr)
	}
	if *calls != 2 {
		t.Errorf("fetcher called %d times, want 2", *calls)
	}
}
