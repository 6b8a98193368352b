package invitepdf

import (
	"errors"
	"runtime"
	"sync"
	"testing"
)

func TestNewServicePool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(0)
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("expected minimum size 1, got %d", pool.Size())
	}
}

func TestServicePool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2)
	defer pool.Close()

	svc, err := pool.Acquire()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected service")
	}

	pool.Release(svc)

	// Released service is reused, not recreated.
	again, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if again != svc {
		t.Error("expected released service to be reused")
	}
	pool.Release(again)
}

func TestServicePool_CloseIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	if _, err := pool.Acquire(); err != nil {
		t.Fatal(err)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("expected nil on second close, got %v", err)
	}
}

func TestServicePool_ReleaseAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	svc, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.Close(); err != nil {
		t.Fatal(err)
	}

	// Must not panic on a closed pool.
	pool.Release(svc)
	pool.Release(nil)
}

func TestServicePool_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2)
	svc, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.Close(); err != nil {
		t.Fatal(err)
	}
	pool.Release(svc)

	// Both the non-blocking fast path and the create-under-size path must
	// refuse a closed pool rather than hand back a nil service.
	got, err := pool.Acquire()
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
	}
	if got != nil {
		t.Errorf("Acquire() = %v, want nil service", got)
	}
}

func TestServicePool_ConcurrentReleaseClose(t *testing.T) {
	t.Parallel()

	// Releases racing Close must either hand the service back or drop it,
	// never send on the closed channel.
	for i := 0; i < 50; i++ {
		pool := NewServicePool(2)

		svcs := make([]*Service, 0, 2)
		for j := 0; j < 2; j++ {
			svc, err := pool.Acquire()
			if err != nil {
				t.Fatal(err)
			}
			svcs = append(svcs, svc)
		}

		start := make(chan struct{})
		var wg sync.WaitGroup
		for _, svc := range svcs {
			wg.Add(1)
			go func(s *Service) {
				defer wg.Done()
				<-start
				pool.Release(s)
			}(svc)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_ = pool.Close()
		}()

		close(start)
		wg.Wait()
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit workers", workers: 3, want: 3},
		{name: "explicit above cap allowed", workers: 12, want: 12},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestResolvePoolSize_Auto(t *testing.T) {
	t.Parallel()

	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("auto size %d outside [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}

	expected := runtime.GOMAXPROCS(0) / cpuDivisor
	if expected < MinPoolSize {
		expected = MinPoolSize
	}
	if expected > MaxPoolSize {
		expected = MaxPoolSize
	}
	if got != expected {
		t.Errorf("expected %d, got %d", expected, got)
	}
}
