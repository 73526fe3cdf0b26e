// Package view は遅延ビューのロード管理を提供する。
//
// 遅延指定されたビューの本体は初回要求時にのみ取得され、成功した結果は
// プロセス内で恒久的にキャッシュされる。同一ビューへの並行要求は単一の
// 取得にまとめられる。
package view

import (
	"context"
	"sync"
)

// Status はビューのロード状態を表す。
type Status string

const (
	// StatusPending は取得中であることを示す。
	StatusPending Status = "pending"
	// StatusReady は取得済みで描画可能であることを示す。
	StatusReady Status = "ready"
	// StatusFailed は取得に失敗したことを示す。自動リトライは行わず、
	// Retryによる明示的な再試行を待つ。
	StatusFailed Status = "failed"
)

// Result はビュー取得の現在の結果を表す。
type Result struct {
	Status  Status
	Content string
	Err     error
}

// FetchFunc はビュー本体を取得する。ネットワーク越しのチャンク取得に相当する。
type FetchFunc func(ctx context.Context, view string) (string, error)

// Loader は遅延ビューの取得とキャッシュを行う。
type Loader struct {
	fetch FetchFunc

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	done    chan struct{}
	content string
	err     error
}

// NewLoader はLoaderを生成する。
func NewLoader(fetch FetchFunc) *Loader {
	return &Loader{
		fetch:   fetch,
		entries: map[string]*entry{},
	}
}

// Load はビューの取得を開始し、現在の結果を返す。
// 取得済みならready、取得中ならpendingを即座に返す。前回失敗したビューは
// failedのまま据え置かれ、再取得はRetryでのみ行われる。
func (l *Loader) Load(view string) Result {
	l.mu.Lock()
	e, ok := l.entries[view]
	if !ok {
		e = l.startLocked(view)
	}
	l.mu.Unlock()

	return e.result()
}

// Retry は失敗したビューの取得をやり直す。
// pendingまたはready状態のビューには何もしない。
func (l *Loader) Retry(view string) Result {
	l.mu.Lock()
	e, ok := l.entries[view]
	if ok {
		select {
		case <-e.done:
			if e.err == nil {
				l.mu.Unlock()
				return e.result()
			}
			e = l.startLocked(view)
		default:
			// 取得中は多重起動しない
		}
	} else {
		e = l.startLocked(view)
	}
	l.mu.Unlock()

	return e.result()
}

// Wait は取得完了まで待機し、最終結果を返す。
// コンテキストが先に打ち切られた場合は呼び出し側にのみエラーを返し、
// 取得自体は継続する（結果は後続の要求のためにキャッシュされる）。
func (l *Loader) Wait(ctx context.Context, view string) (Result, error) {
	l.mu.Lock()
	e, ok := l.entries[view]
	if !ok {
		e = l.startLocked(view)
	}
	l.mu.Unlock()

	select {
	case <-e.done:
		return e.result(), nil
	case <-ctx.Done():
		return Result{Status: StatusPending}, ctx.Err()
	}
}

// Peek は取得を開始せずに現在の状態だけを返す。
func (l *Loader) Peek(view string) (Result, bool) {
	l.mu.Lock()
	e, ok := l.entries[view]
	l.mu.Unlock()

	if !ok {
		return Result{}, false
	}
	return e.result(), true
}

// startLocked は取得ゴルーチンを起動してエントリを登録する。
// 呼び出し側がロックを保持していること。
func (l *Loader) startLocked(view string) *entry {
	e := &entry{done: make(chan struct{})}
	l.entries[view] = e

	go func() {
		content, err := l.fetch(context.Background(), view)
		e.content = content
		e.err = err
		close(e.done)
	}()

	return e
}

func (e *entry) result() Result {
	select {
	case <-e.done:
		if e.err != nil {
			return Result{Status: StatusFailed, Err: e.err}
		}
		return Result{Status: StatusReady, Content: e.content}
	default:
		return Result{Status: StatusPending}
	}
}
