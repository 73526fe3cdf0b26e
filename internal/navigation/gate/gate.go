// Package gate は認証が必要なルートの描画判定を提供する。
//
// requiresAuth=trueのビューは、Session.Identityが存在しない間は決して
// 描画されない。ここが唯一の強制ポイントであり、判定はマウント時だけで
// なくセッション変更のたびに再実行される。
package gate

import (
	"sync"

	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/navigation/route"
	"github.com/hitoshi/careernest/internal/navigation/session"
)

// DecisionKind は描画判定の種別を表す。
type DecisionKind string

const (
	// DecisionRender はビューを描画することを示す。
	DecisionRender DecisionKind = "render"
	// DecisionPlaceholder はセッション解決中のプレースホルダ表示を示す。
	DecisionPlaceholder DecisionKind = "placeholder"
	// DecisionRedirect はログインルートへのリダイレクトを示す。
	DecisionRedirect DecisionKind = "redirect"
)

// Decision は1回の描画判定の結果を表す。
// Redirectの場合、Fromには元々要求されていたパスが入る（ログイン成功後の
// 戻り先として消費される）。
type Decision struct {
	Kind     DecisionKind
	View     string
	Redirect string
	From     string
}

// Evaluate はルートとセッション状態から描画判定を行う。
// 認証不要のルートは常に描画される。
func Evaluate(desc model.RouteDescriptor, path string, sess model.ClientSession) Decision {
	if !desc.RequiresAuth {
		return Decision{Kind: DecisionRender, View: desc.View}
	}

	if sess.Loading {
		return Decision{Kind: DecisionPlaceholder, View: desc.View}
	}

	if sess.Identity == nil {
		return Decision{Kind: DecisionRedirect, Redirect: route.LoginPath, From: path}
	}

	return Decision{Kind: DecisionRender, View: desc.View}
}

// Watcher はガード対象ビューのマウント期間中、セッション変更のたびに
// 描画判定を再実行してコールバックに通知する。
// Close後に届いた遅延通知は破棄される。
type Watcher struct {
	store *session.Store
	token session.Token

	mu     sync.Mutex
	closed bool
	emit   func(Decision)
	desc   model.RouteDescriptor
	path   string
}

// NewWatcher はストアを購読するWatcherを生成し、現在の状態に対する
// 初回判定を即座に通知する。
func NewWatcher(store *session.Store, desc model.RouteDescriptor, path string, emit func(Decision)) *Watcher {
	w := &Watcher{
		store: store,
		emit:  emit,
		desc:  desc,
		path:  path,
	}

	w.token = store.Subscribe(func(sess model.ClientSession) {
		w.dispatch(sess)
	})

	w.dispatch(store.CurrentSession())
	return w
}

// Close は購読を解除する。以後の通知は破棄される。
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.store.Unsubscribe(w.token)
}

func (w *Watcher) dispatch(sess model.ClientSession) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	emit := w.emit
	decision := Evaluate(w.desc, w.path, sess)
	w.mu.Unlock()

	emit(decision)
}
