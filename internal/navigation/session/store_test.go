package session

import (
	"testing"

	"github.com/hitoshi/careernest/internal/model"
)

// TestStore_InitialState は生成直後のロード中状態を検証する。
func TestStore_InitialState(t *testing.T) {
	store := NewStore()

	sess := store.CurrentSession()
	if !sess.Loading {
		t.Error("expected initial session to be loading")
	}
	if sess.Identity != nil {
		t.Errorf("expected no identity, got %+v", sess.Identity)
	}
}

// TestStore_SetResolvesLoading は認証通知でロード中が解除されることを検証する。
func TestStore_SetResolvesLoading(t *testing.T) {
	store := NewStore()

	store.Set(&model.Principal{ID: "user-1", Email: "user@example.com"})

	sess := store.CurrentSession()
	if sess.Loading {
		t.Error("expected loading to be resolved after Set")
	}
	if sess.Identity == nil || sess.Identity.ID != "user-1" {
		t.Errorf("unexpected identity: %+v", sess.Identity)
	}
}

// TestStore_FailResolvesToAnonymous はエラー縮退を検証する。
func TestStore_FailResolvesToAnonymous(t *testing.T) {
	store := NewStore()

	store.Fail()

	sess := store.CurrentSession()
	if sess.Loading {
		t.Error("expected loading to be resolved after Fail")
	}
	if sess.Identity != nil {
		t.Errorf("expected no identity after Fail, got %+v", sess.Identity)
	}
}

// TestStore_ListenersNotifiedInOrder はリスナーが登録順に同期実行されることを検証する。
func TestStore_ListenersNotifiedInOrder(t *testing.T) {
	store := NewStore()

	var calls []string
	store.Subscribe(func(model.ClientSession) {
		calls = append(calls, "first")
	})
	store.Subscribe(func(model.ClientSession) {
		calls = append(calls, "second")
	})

	store.Set(nil)

	if len(calls) != 2 {
		t.Fatalf("expected 2 listener calls, got %d", len(calls))
	}
	if calls[0] != "first" || calls[1] != "second" {
		t.Errorf("listeners called out of order: %v", calls)
	}
}

// TestStore_Unsubscribe は解除済みリスナーが呼ばれないことを検証する。
func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore()

	called := false
	token := store.Subscribe(func(model.ClientSession) {
		called = true
	})
	store.Unsubscribe(token)

	store.Set(nil)

	if called {
		t.Error("unsubscribed listener should not be called")
	}

	// 未登録トークンの解除は何もしない
	store.Unsubscribe(Token(999))
}

// TestStore_ListenerReceivesNewValue はリスナーが更新後の値を受け取ることを検証する。
func TestStore_ListenerReceivesNewValue(t *testing.T) {
	store := NewStore()

	var got model.ClientSession
	store.Subscribe(func(sess model.ClientSession) {
		got = sess
	})

	store.Set(&model.Principal{ID: "user-2", Email: "two@example.com"})

	if got.Loading {
		t.Error("listener should receive resolved session")
	}
	if got.Identity == nil || got.Identity.Email != "two@example.com" {
		t.Errorf("unexpected identity in notification: %+v", got.Identity)
	}
}
