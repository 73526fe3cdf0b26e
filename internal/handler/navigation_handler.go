package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hitoshi/careernest/internal/auth"
	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/navigation/gate"
	"github.com/hitoshi/careernest/internal/navigation/route"
	"github.com/hitoshi/careernest/internal/navigation/session"
	"github.com/hitoshi/careernest/internal/navigation/view"
)

// AuthEventsInterface はセッション変更イベントの購読インターフェース。
// auth.Serviceの部分集合として定義する。
type AuthEventsInterface interface {
	OnSessionChange(fn func(auth.Event)) auth.ListenerToken
	RemoveSessionListener(token auth.ListenerToken)
}

// NavigationHandler はルート解決APIのHTTPハンドラー。
// SPAのナビゲーションコントローラをサーバー側で駆動する。
type NavigationHandler struct {
	table    *route.Table
	loader   *view.Loader
	resolver middleware.SessionResolver
	events   AuthEventsInterface
}

// NewNavigationHandler はNavigationHandlerを生成する。
func NewNavigationHandler(table *route.Table, loader *view.Loader, resolver middleware.SessionResolver, events AuthEventsInterface) *NavigationHandler {
	return &NavigationHandler{
		table:    table,
		loader:   loader,
		resolver: resolver,
		events:   events,
	}
}

type navigateRequest struct {
	Path string `json:"path"`
}

// decisionResponse は描画判定のJSON表現。
type decisionResponse struct {
	Kind       string `json:"kind"`
	View       string `json:"view,omitempty"`
	Redirect   string `json:"redirect,omitempty"`
	From       string `json:"from,omitempty"`
	Deferred   bool   `json:"deferred,omitempty"`
	LoadStatus string `json:"load_status,omitempty"`
}

// Navigate はパスを解決して描画判定を返す。
// POST /api/navigate
//
// 同一セッションに対して冪等。遅延ビューが解決された場合は
// バックグラウンドでビュー本体の取得を開始し、現在のロード状態を併記する。
func (h *NavigationHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	sess := h.sessionFromRequest(r)

	desc, ok := h.table.Resolve(req.Path)
	if !ok {
		http.Error(w, "no route matched", http.StatusNotFound)
		return
	}

	decision := gate.Evaluate(desc, req.Path, sess)
	resp := toDecisionResponse(decision)

	if decision.Kind == gate.DecisionRender && desc.Deferred {
		resp.Deferred = true
		resp.LoadStatus = string(h.loader.Load(desc.View).Status)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Watch は描画判定のSSEストリームを返す。
// GET /api/navigate/watch?path=/dashboard
//
// 接続時のセッションでストアを初期化し、以後は認証イベントのうち
// このセッションに関するものだけをストアへ反映する。判定が変わるたびに
// decisionイベントを送出する（サインアウトでredirectに切り替わる）。
func (h *NavigationHandler) Watch(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path query parameter is required", http.StatusBadRequest)
		return
	}

	desc, ok := h.table.Resolve(path)
	if !ok {
		http.Error(w, "no route matched", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	var sessionID string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	store := session.NewStore()

	decisions := make(chan gate.Decision, 8)
	watcher := gate.NewWatcher(store, desc, path, func(d gate.Decision) {
		select {
		case decisions <- d:
		default:
			// 追いつけないクライアントには最新判定のみ届けばよい
		}
	})
	defer watcher.Close()

	// 接続時点のセッションを反映（初回判定はloading中のplaceholderになり得る）
	principal, err := h.resolver.ResolveSession(r.Context(), sessionID)
	if err != nil {
		store.Fail()
	} else {
		store.Set(principal)
	}

	// このセッションに関する認証イベントだけをストアに反映する
	token := h.events.OnSessionChange(func(ev auth.Event) {
		if ev.SessionID != sessionID {
			return
		}
		switch ev.Type {
		case auth.EventSignedOut:
			store.Set(nil)
		case auth.EventSignedIn:
			p := ev.Principal
			store.Set(&p)
		}
	})
	defer h.events.RemoveSessionListener(token)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case d := <-decisions:
			payload, err := json.Marshal(toDecisionResponse(d))
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: decision\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// Routes は登録済みルートの一覧を返す。
// GET /api/navigate/routes
func (h *NavigationHandler) Routes(w http.ResponseWriter, r *http.Request) {
	entries := h.table.Entries()

	type entryResponse struct {
		Pattern      string `json:"pattern"`
		View         string `json:"view"`
		RequiresAuth bool   `json:"requires_auth"`
		Deferred     bool   `json:"deferred"`
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			Pattern:      e.PathPattern,
			View:         e.View,
			RequiresAuth: e.RequiresAuth,
			Deferred:     e.Deferred,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// sessionFromRequest はCookieからClientSessionを構築する。
// 解決エラーは未認証・ロード完了として扱う（ストアのFailと同じ縮退）。
func (h *NavigationHandler) sessionFromRequest(r *http.Request) model.ClientSession {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return model.ClientSession{Identity: nil, Loading: false}
	}

	principal, err := h.resolver.ResolveSession(r.Context(), cookie.Value)
	if err != nil {
		return model.ClientSession{Identity: nil, Loading: false}
	}
	return model.ClientSession{Identity: principal, Loading: false}
}

func toDecisionResponse(d gate.Decision) decisionResponse {
	return decisionResponse{
		Kind:     string(d.Kind),
		View:     d.View,
		Redirect: d.Redirect,
		From:     d.From,
	}
}
