package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/careernest/internal/model"
)

func testRateLimiterConfig(burst int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // 実質補充なし
		GeneralBurst:    burst,
		AnalyzeRate:     rate.Limit(0.001),
		AnalyzeBurst:    burst,
		CleanupInterval: time.Hour,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestGeneralMiddleware_BurstExhaustion はユーザー単位のバースト枯渇で
// 429が返ることを検証する。
func TestGeneralMiddleware_BurstExhaustion(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/resumes", nil)
		ctx := ContextWithPrincipal(req.Context(), &model.Principal{ID: userID, Email: userID + "@example.com"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		return rec.Code
	}

	// バースト分は通る
	for i := 0; i < 2; i++ {
		if code := send("user-1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}

	// 枯渇後は429
	if code := send("user-1"); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", code)
	}

	// 別ユーザーには影響しない
	if code := send("user-2"); code != http.StatusOK {
		t.Errorf("other user status = %d, want 200", code)
	}
}

// TestGeneralMiddleware_RequiresPrincipal は認証主体なしで401になることを検証する。
func TestGeneralMiddleware_RequiresPrincipal(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(10))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/resumes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestAnalyzeMiddleware_KeyedByIP はIP単位で制限され、
// 429レスポンスにRetry-Afterが付くことを検証する。
func TestAnalyzeMiddleware_KeyedByIP(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1))
	defer rl.Stop()

	handler := rl.AnalyzeMiddleware()(okHandler())

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/analyze-career", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send("10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec := send("10.0.0.1:5678") // 同一IP、別ポート
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// 別IPは新しいバケット
	if rec := send("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", rec.Code)
	}
}

// TestAnalyzeMiddleware_SkipsPreflight はOPTIONSプリフライトが制限対象外で
// あることを検証する。
func TestAnalyzeMiddleware_SkipsPreflight(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1))
	defer rl.Stop()

	handler := rl.AnalyzeMiddleware()(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/functions/v1/analyze-career", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("preflight %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	if rl.AnalyzeLimiterCount() != 0 {
		t.Errorf("preflight created %d limiter entries", rl.AnalyzeLimiterCount())
	}
}
