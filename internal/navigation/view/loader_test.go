package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestLoader_PendingThenReady は初回ロードがpendingを経てreadyになることを検証する。
func TestLoader_PendingThenReady(t *testing.T) {
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		<-release
		return "chunk:" + view, nil
	})

	res := loader.Load("dashboard")
	if res.Status != StatusPending {
		t.Errorf("initial status = %q, want pending", res.Status)
	}

	close(release)

	final, err := loader.Wait(context.Background(), "dashboard")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if final.Status != StatusReady {
		t.Errorf("status = %q, want ready", final.Status)
	}
	if final.Content != "chunk:dashboard" {
		t.Errorf("content = %q", final.Content)
	}
}

// TestLoader_ReadyIsCached は取得済みビューが再取得されないことを検証する。
func TestLoader_ReadyIsCached(t *testing.T) {
	var calls int32
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "body", nil
	})

	if _, err := loader.Wait(context.Background(), "features"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		res := loader.Load("features")
		if res.Status != StatusReady {
			t.Errorf("status = %q, want ready", res.Status)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
}

// TestLoader_FailureStaysFailedUntilRetry は失敗が自動再試行されず、
// Retryでのみ再取得されることを検証する。
func TestLoader_FailureStaysFailedUntilRetry(t *testing.T) {
	var calls int32
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", errors.New("fetch failed")
		}
		return "body", nil
	})

	if _, err := loader.Wait(context.Background(), "auto-apply"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	// 失敗後のLoadは再取得しない
	res := loader.Load("auto-apply")
	if res.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", res.Status)
	}
	if res.Err == nil {
		t.Error("expected error in failed result")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch called %d times after failed Load, want 1", n)
	}

	// Retryで再取得して成功する
	loader.Retry("auto-apply")
	final, err := loader.Wait(context.Background(), "auto-apply")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if final.Status != StatusReady {
		t.Errorf("status after retry = %q, want ready", final.Status)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetch called %d times, want 2", n)
	}
}

// TestLoader_RetryIgnoresHealthyEntries はpending/ready状態へのRetryが
// 多重取得を起こさないことを検証する。
func TestLoader_RetryIgnoresHealthyEntries(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "body", nil
	})

	loader.Load("resume-builder")

	// 取得中のRetryは何もしない
	res := loader.Retry("resume-builder")
	if res.Status != StatusPending {
		t.Errorf("status = %q, want pending", res.Status)
	}

	close(release)
	if _, err := loader.Wait(context.Background(), "resume-builder"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	// 取得済みのRetryも何もしない
	res = loader.Retry("resume-builder")
	if res.Status != StatusReady {
		t.Errorf("status = %q, want ready", res.Status)
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
}

// TestLoader_ConcurrentLoadsShareFetch は同一ビューへの並行要求が
// 単一の取得にまとめられることを検証する。
func TestLoader_ConcurrentLoadsShareFetch(t *testing.T) {
	var calls int32
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return "body", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := loader.Wait(context.Background(), "ats-engine"); err != nil {
				t.Errorf("Wait failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
}

// TestLoader_WaitHonorsContext はコンテキスト打ち切りでWaitだけが
// 戻り、取得自体は継続することを検証する。
func TestLoader_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		<-release
		return "body", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := loader.Wait(ctx, "interview")
	if err == nil {
		t.Fatal("expected context error")
	}
	if res.Status != StatusPending {
		t.Errorf("status = %q, want pending", res.Status)
	}

	// 取得は継続し、後続の要求で結果が得られる
	close(release)
	final, err := loader.Wait(context.Background(), "interview")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if final.Status != StatusReady {
		t.Errorf("status = %q, want ready", final.Status)
	}
}

// TestLoader_Peek はPeekが取得を開始しないことを検証する。
func TestLoader_Peek(t *testing.T) {
	var calls int32
	loader := NewLoader(func(ctx context.Context, view string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "body", nil
	})

	if _, ok := loader.Peek("dashboard"); ok {
		t.Error("Peek on unknown view should report absence")
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("Peek triggered %d fetches, want 0", n)
	}
}
