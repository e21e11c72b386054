package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func startQueue(t *testing.T, buffer int) *Queue {
	t.Helper()
	q := New(buffer)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("queue did not stop")
		}
	})
	return q
}

func TestDoDeliversValueAndError(t *testing.T) {
	q := startQueue(t, 4)
	ctx := context.Background()

	result := q.Do(ctx, "students", func(context.Context) (any, error) {
		return []string{"김철수"}, nil
	})
	if result.Op != "students" || result.Err != nil {
		t.Fatalf("result = %+v", result)
	}
	names, ok := result.Value.([]string)
	if !ok || len(names) != 1 {
		t.Fatalf("value = %v", result.Value)
	}

	wantErr := errors.New("boom")
	result = q.Do(ctx, "fail", func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(result.Err, wantErr) {
		t.Fatalf("err = %v, want %v", result.Err, wantErr)
	}
}

func TestOperationsRunOneAtATime(t *testing.T) {
	q := startQueue(t, 16)

	var mu sync.Mutex
	running := 0
	maxRunning := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Do(context.Background(), "probe", func(context.Context) (any, error) {
				mu.Lock()
				running++
				if running > maxRunning {
					maxRunning = running
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil, nil
			})
		}()
	}
	wg.Wait()

	if maxRunning != 1 {
		t.Fatalf("saw %d operations in flight, want 1", maxRunning)
	}
}

func TestSubmitFullBuffer(t *testing.T) {
	// No Run loop; tasks stay pending.
	q := New(1)
	if _, err := q.Submit("first", func(context.Context) (any, error) { return nil, nil }); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := q.Submit("second", func(context.Context) (any, error) { return nil, nil }); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want %v", err, ErrQueueFull)
	}
}

func TestRunDrainsPendingOnCancel(t *testing.T) {
	// Cancel before Run so the task channel and ctx.Done are ready together;
	// the pending operation must be drained, never started.
	for i := 0; i < 20; i++ {
		q := New(4)
		executed := false
		done, err := q.Submit("pending", func(context.Context) (any, error) {
			executed = true
			return nil, nil
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := q.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("run returned %v", err)
		}

		select {
		case result := <-done:
			if !errors.Is(result.Err, ErrQueueClosed) {
				t.Fatalf("drained result err = %v, want %v", result.Err, ErrQueueClosed)
			}
		case <-time.After(time.Second):
			t.Fatal("pending task never resolved")
		}
		if executed {
			t.Fatal("cancelled queue executed a pending operation")
		}
	}
}

func TestStartedOperationSurvivesCancel(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	done, err := q.Submit("long", func(opCtx context.Context) (any, error) {
		close(started)
		select {
		case <-opCtx.Done():
			return nil, opCtx.Err()
		case <-time.After(20 * time.Millisecond):
			return "finished", nil
		}
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = q.Run(ctx)
	}()

	<-started
	cancel()

	select {
	case result := <-done:
		if result.Err != nil || result.Value != "finished" {
			t.Fatalf("result = %+v, want finished without error", result)
		}
	case <-time.After(time.Second):
		t.Fatal("running operation never completed")
	}
	<-runDone
}

func TestDoReturnsOnCallerCancel(t *testing.T) {
	// No Run loop, so the operation never starts and Do must give up when
	// the caller's context does.
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := q.Do(ctx, "stuck", func(context.Context) (any, error) { return nil, nil })
	if !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("err = %v, want %v", result.Err, context.Canceled)
	}
}
