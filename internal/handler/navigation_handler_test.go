package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/navigation/route"
	"github.com/hitoshi/careernest/internal/navigation/view"
)

func newTestNavigationHandler(resolver *mockAuthService) *NavigationHandler {
	table := route.NewTable(route.FeatureDescriptors())
	loader := view.NewLoader(func(ctx context.Context, viewName string) (string, error) {
		return "chunk:" + viewName, nil
	})
	return NewNavigationHandler(table, loader, resolver, newMockAuthEvents())
}

func navigate(t *testing.T, h *NavigationHandler, path string, cookie *http.Cookie) (int, decisionResponse) {
	t.Helper()

	body, _ := json.Marshal(navigateRequest{Path: path})
	req := httptest.NewRequest(http.MethodPost, "/api/navigate", strings.NewReader(string(body)))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	h.Navigate(rec, req)

	var resp decisionResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec.Code, resp
}

// TestNavigate_PublicRoute は公開ルートが未認証でも描画判定になることを検証する。
func TestNavigate_PublicRoute(t *testing.T) {
	h := newTestNavigationHandler(&mockAuthService{})

	code, resp := navigate(t, h, "/features", nil)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Kind != "render" {
		t.Errorf("kind = %q, want render", resp.Kind)
	}
	if resp.View != route.ViewFeatures {
		t.Errorf("view = %q, want %q", resp.View, route.ViewFeatures)
	}
}

// TestNavigate_GuardedRouteAnonymous は未認証の保護ルートがリダイレクト
// 判定になり、元のパスがfromに入ることを検証する。
func TestNavigate_GuardedRouteAnonymous(t *testing.T) {
	h := newTestNavigationHandler(&mockAuthService{})

	code, resp := navigate(t, h, "/dashboard", nil)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Kind != "redirect" {
		t.Errorf("kind = %q, want redirect", resp.Kind)
	}
	if resp.Redirect != route.LoginPath {
		t.Errorf("redirect = %q, want %q", resp.Redirect, route.LoginPath)
	}
	if resp.From != "/dashboard" {
		t.Errorf("from = %q, want /dashboard", resp.From)
	}
}

// TestNavigate_GuardedRouteAuthenticated は有効なセッションCookie付きで
// 保護ルートが描画判定になることを検証する。
func TestNavigate_GuardedRouteAuthenticated(t *testing.T) {
	resolver := &mockAuthService{
		resolveSessionFunc: func(ctx context.Context, sessionID string) (*model.Principal, error) {
			if sessionID == "sess-1" {
				return &model.Principal{ID: "user-1", Email: "user@example.com"}, nil
			}
			return nil, nil
		},
	}
	h := newTestNavigationHandler(resolver)

	cookie := &http.Cookie{Name: middleware.SessionCookieName, Value: "sess-1"}
	code, resp := navigate(t, h, "/dashboard", cookie)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Kind != "render" {
		t.Errorf("kind = %q, want render", resp.Kind)
	}
	if resp.View != route.ViewDashboard {
		t.Errorf("view = %q, want %q", resp.View, route.ViewDashboard)
	}
}

// TestNavigate_DeferredViewReportsLoadStatus は遅延ビューでロード状態が
// 併記されることを検証する。
func TestNavigate_DeferredViewReportsLoadStatus(t *testing.T) {
	h := newTestNavigationHandler(&mockAuthService{})

	code, resp := navigate(t, h, "/resume-builder", nil)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !resp.Deferred {
		t.Error("expected deferred flag")
	}
	if resp.LoadStatus != string(view.StatusPending) && resp.LoadStatus != string(view.StatusReady) {
		t.Errorf("load_status = %q", resp.LoadStatus)
	}

	// 2回目の要求ではロード済みになっているはず
	code, resp = navigate(t, h, "/resume-builder", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	_ = resp
}

// TestNavigate_UnknownPathFallsToCatchAll は未登録パスがnot-foundビューの
// 描画判定になることを検証する。
func TestNavigate_UnknownPathFallsToCatchAll(t *testing.T) {
	h := newTestNavigationHandler(&mockAuthService{})

	code, resp := navigate(t, h, "/no/such/path", nil)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.View != route.ViewNotFound {
		t.Errorf("view = %q, want %q", resp.View, route.ViewNotFound)
	}
}

// TestNavigate_RequiresPath はパス未指定が400になることを検証する。
func TestNavigate_RequiresPath(t *testing.T) {
	h := newTestNavigationHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/navigate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Navigate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestRoutes は登録済みルート一覧の返却を検証する。
func TestRoutes(t *testing.T) {
	h := newTestNavigationHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/navigate/routes", nil)
	rec := httptest.NewRecorder()

	h.Routes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var entries []struct {
		Pattern      string `json:"pattern"`
		View         string `json:"view"`
		RequiresAuth bool   `json:"requires_auth"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected entries")
	}

	found := false
	for _, e := range entries {
		if e.Pattern == "/dashboard" && e.RequiresAuth {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected guarded /dashboard entry in route list")
	}
}
