// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/careernest/internal/metrics"
	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/navigation/login"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	ConfirmEmail(ctx context.Context, token string) error
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, *model.Principal, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (*model.Principal, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はパスワード認証関連のHTTPハンドラー。
// ログイン・サインアップはlogin.Flowの状態機械を通して処理され、
// 入力検証に失敗したリクエストは認証サービスに到達しない。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: collector,
	}
}

// flowAuthAdapter はAuthServiceInterfaceをlogin.Flowのコラボレーターに適合させる。
// サインイン成功時に発行されたセッションを捕捉する。
type flowAuthAdapter struct {
	service AuthServiceInterface
	session *model.Session
	lastErr error
}

func (a *flowAuthAdapter) SignInWithPassword(ctx context.Context, email, password string) (*model.Principal, error) {
	session, principal, err := a.service.SignInWithPassword(ctx, email, password)
	if err != nil {
		a.lastErr = err
		return nil, err
	}
	a.session = session
	return principal, nil
}

func (a *flowAuthAdapter) SignUp(ctx context.Context, email, password string) error {
	_, err := a.service.SignUp(ctx, email, password)
	if err != nil {
		a.lastErr = err
	}
	return err
}

var _ login.Authenticator = (*flowAuthAdapter)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// From は認証ゲートが付与した元々の要求パス。成功時の戻り先になる。
	From string `json:"from"`
}

// Login はメールアドレスとパスワードでサインインする。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	adapter := &flowAuthAdapter{service: h.service}
	var target string
	flow := login.NewFlow(adapter, func(path string) { target = path }, 0)
	if req.From != "" {
		flow.SetPendingTarget(req.From)
	}

	flow.SubmitSignIn(r.Context(), req.Email, req.Password)

	if adapter.session == nil {
		h.metrics.RecordLoginFailure()
		h.writeFlowError(w, adapter.lastErr, flow.Notice())
		return
	}

	h.metrics.RecordLoginSuccess()
	h.setSessionCookie(w, adapter.session.ID, h.config.SessionMaxAge)

	principal, err := h.service.ResolveSession(r.Context(), adapter.session.ID)
	if err != nil || principal == nil {
		slog.Error("failed to resolve issued session", slog.Any("error", err))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"redirect_to": target,
		"user": map[string]string{
			"id":    principal.ID,
			"email": principal.Email,
		},
	})
}

// SignUp は新規アカウントを登録する。
// POST /auth/signup
//
// 成功してもセッションは発行しない。メール確認が完了するまで
// サインインできないため、202と案内メッセージを返す。
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	adapter := &flowAuthAdapter{service: h.service}
	flow := login.NewFlow(adapter, func(string) {}, 0)

	accepted := flow.SubmitSignUp(r.Context(), req.Email, req.Password)
	if !accepted || adapter.lastErr != nil {
		h.writeFlowError(w, adapter.lastErr, flow.Notice())
		return
	}

	h.metrics.RecordSignUp()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"message": flow.Notice(),
	})
}

// Confirm はメール確認トークンを検証する。
// GET /auth/confirm?token=xxx
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.service.ConfirmEmail(r.Context(), token); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
			return
		}
		slog.Error("failed to confirm email", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	// 確認完了後はログイン画面へ誘導
	http.Redirect(w, r, h.config.BaseURL+"/login", http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	principal, err := h.service.ResolveSession(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to resolve session", slog.String("error", err.Error()))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if principal == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"id":    principal.ID,
		"email": principal.Email,
	})
}

// writeFlowError はフロー経由の失敗をHTTPレスポンスに変換する。
// サービスがAPIErrorを返した場合は統一フォーマットで返し、
// ローカル検証で弾かれた場合はフローの通知メッセージを返す。
func (h *AuthHandler) writeFlowError(w http.ResponseWriter, serviceErr error, notice string) {
	if serviceErr != nil {
		var apiErr *model.APIError
		if errors.As(serviceErr, &apiErr) {
			middleware.WriteErrorResponse(w, statusForAPIError(apiErr), apiErr)
			return
		}
		slog.Error("auth request failed", slog.String("error", serviceErr.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	// コラボレーター未到達（ローカル検証失敗）
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{
		"message": notice,
	})
}

// statusForAPIError はエラーコードからHTTPステータスを決める。
func statusForAPIError(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidCredentials, model.ErrCodeEmailNotConfirmed:
		return http.StatusUnauthorized
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeResumeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// setSessionCookie はHTTP OnlyのセッションCookieを設定する。
// maxAgeに負値を渡すとCookieを削除する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  cookieExpiry(maxAge),
	})
}

func cookieExpiry(maxAge int) time.Time {
	if maxAge < 0 {
		return time.Unix(0, 0)
	}
	return time.Time{}
}
