// compute_test.go: tests for GetOrCompute / GetOrComputeWithContext
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nbhashmap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrCompute_ComputesOnMiss(t *testing.T) {
	m := New[string, int]()
	var calls int32

	v, err := m.GetOrCompute("a", func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("GetOrCompute returned %d, want 42", v)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestGetOrCompute_HitSkipsCompute(t *testing.T) {
	m := New[string, int]()
	m.Put("a", 7)

	v, err := m.GetOrCompute("a", func() (int, error) {
		t.Fatal("compute should not run when the key is already present")
		return 0, nil
	})
	if err != nil || v != 7 {
		t.Errorf("GetOrCompute(present) = (%d, %v), want (7, nil)", v, err)
	}
}

func TestGetOrCompute_InstallsResultIntoMap(t *testing.T) {
	m := New[string, int]()
	m.GetOrCompute("a", func() (int, error) { return 99, nil })

	v, found := m.Get("a")
	if !found || v != 99 {
		t.Errorf("Get(a) after GetOrCompute = (%v, %v), want (99, true)", v, found)
	}
}

func TestGetOrCompute_ErrorIsNotInstalled(t *testing.T) {
	m := New[string, int]()
	boom := errors.New("boom")

	_, err := m.GetOrCompute("a", func() (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("GetOrCompute error = %v, want %v", err, boom)
	}
	if _, found := m.Get("a"); found {
		t.Error("a failed compute must not install anything into the map")
	}
}

func TestGetOrCompute_PanicIsRecoveredAsError(t *testing.T) {
	m := New[string, int]()
	_, err := m.GetOrCompute("a", func() (int, error) {
		panic("kaboom")
	})
	if err == nil {
		t.Fatal("expected a recovered panic to surface as an error")
	}
	if GetErrorCode(err) != ErrCodePanicRecovered {
		t.Errorf("GetErrorCode() = %v, want %v", GetErrorCode(err), ErrCodePanicRecovered)
	}
}

func TestGetOrCompute_SingleflightDedupesConcurrentCallers(t *testing.T) {
	m := New[string, int]()
	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	const callers = 20
	results := make([]int, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err := m.GetOrCompute("shared", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return 123, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[idx] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("compute ran %d times across %d concurrent callers, want 1", calls, callers)
	}
	for i, r := range results {
		if r != 123 {
			t.Errorf("caller %d got %d, want 123", i, r)
		}
	}
}

func TestGetOrComputeWithContext_RespectsCancellationWhileWaiting(t *testing.T) {
	m := New[string, int]()
	release := make(chan struct{})

	go func() {
		m.GetOrComputeWithContext(context.Background(), "k", func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
	}()

	time.Sleep(20 * time.Millisecond) // let the first caller register the in-flight call

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.GetOrComputeWithContext(ctx, "k", func(ctx context.Context) (int, error) {
		t.Fatal("second caller should wait on the first in-flight call, not run its own compute")
		return 0, nil
	})
	if err == nil {
		t.Fatal("expected a context-deadline error while waiting on another goroutine's compute")
	}
	close(release)
}

func TestGetOrComputeWithContext_AlreadyCancelled(t *testing.T) {
	m := New[string, int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.GetOrComputeWithContext(ctx, "k", func(ctx context.Context) (int, error) {
		t.Fatal("compute must not run against an already-cancelled context")
		return 0, nil
	})
	if err == nil {
		t.Fatal("expected an error for an already-cancelled context")
	}
}

func TestGetOrComputeWithContext_ComputesOnMiss(t *testing.T) {
	m := New[string, int]()
	v, err := m.GetOrComputeWithContext(context.Background(), "a", func(ctx context.Context) (int, error) {
		return 5, nil
	})
	if err != nil || v != 5 {
		t.Errorf("GetOrComputeWithContext = (%d, %v), want (5, nil)", v, err)
	}
}

func TestGetOrComputeWithContext_PanicIsRecovered(t *testing.T) {
	m := New[string, int]()
	_, err := m.GetOrComputeWithContext(context.Background(), "a", func(ctx context.Context) (int, error) {
		panic(fmt.Errorf("nope"))
	})
	if err == nil || GetErrorCode(err) != ErrCodePanicRecovered {
		t.Errorf("expected a recovered-panic error, got %v", err)
	}
}
