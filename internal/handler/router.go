package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careernest/internal/metrics"
	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/navigation/route"
	"github.com/hitoshi/careernest/internal/navigation/view"
	"github.com/hitoshi/careernest/internal/repository"
	"github.com/hitoshi/careernest/internal/security"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig
	AuthEvents  AuthEventsInterface

	// ナビゲーション
	RouteTable *route.Table
	ViewLoader *view.Loader

	// ドメインサービス
	AnalyzerService  AnalyzerServiceInterface
	AutoApplyService AutoApplyServiceInterface
	InterviewService InterviewServiceInterface
	AnalyzeTimeout   time.Duration

	// レジュメ・応募
	ResumeRepo      repository.ResumeRepository
	ApplicationRepo repository.ApplicationRepository
	SSRFGuard       security.SSRFGuardService
	Sanitizer       security.ContentSanitizerService
	ResumeConfig    ResumeHandlerConfig

	Metrics metrics.MetricsCollector
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → （グループごとのCORS/Session/RateLimit）
//
// /functions/v1/* はサーバーレス互換のため任意オリジンCORSかつ認証なしで、
// 分析専用レート制限のみを適用する。
// /api/navigate はCookieがあれば利用するが認証必須ではない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Metrics)
	navHandler := NewNavigationHandler(deps.RouteTable, deps.ViewLoader, deps.SessionResolver, deps.AuthEvents)
	functionsHandler := NewFunctionsHandler(deps.AnalyzerService, deps.AutoApplyService, deps.Metrics, deps.AnalyzeTimeout)
	resumeHandler := NewResumeHandler(deps.ResumeRepo, deps.SSRFGuard, deps.Sanitizer, deps.Metrics, deps.ResumeConfig)
	appHandler := NewApplicationHandler(deps.ApplicationRepo)
	dashboardHandler := NewDashboardHandler(deps.ResumeRepo, deps.ApplicationRepo)
	interviewHandler := NewInterviewHandler(deps.InterviewService)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// --- サーバーレス互換エンドポイント（認証なし） ---
	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(middleware.NewOpenCORSMiddleware())
		r.Use(deps.RateLimiter.AnalyzeMiddleware())

		r.Post("/analyze-career", functionsHandler.AnalyzeCareer)
		r.Post("/auto-apply", functionsHandler.AutoApply)
	})

	// --- 認証ルート ---
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/confirm", authHandler.Confirm)
		r.Get("/me", authHandler.Me)
	})

	// --- ルート解決API（認証任意） ---
	r.Route("/api/navigate", func(r chi.Router) {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

		r.Post("/", navHandler.Navigate)
		r.Get("/watch", navHandler.Watch)
		r.Get("/routes", navHandler.Routes)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: CORS → Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// レジュメ管理
		r.Route("/api/resumes", func(r chi.Router) {
			r.Post("/", resumeHandler.Create)
			r.Get("/", resumeHandler.List)
			r.Post("/{id}/score", resumeHandler.Score)
		})

		// 応募トラッカー
		r.Route("/api/applications", func(r chi.Router) {
			r.Post("/", appHandler.Create)
			r.Get("/", appHandler.List)
			r.Get("/export", appHandler.Export)
		})

		// ダッシュボード
		r.Get("/api/dashboard", dashboardHandler.Summary)

		// 模擬面接
		r.Route("/api/interview", func(r chi.Router) {
			r.Get("/roles", interviewHandler.Roles)
			r.Post("/session", interviewHandler.StartSession)
			r.Post("/answer", interviewHandler.Answer)
		})
	})

	return r
}
