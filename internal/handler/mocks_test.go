package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/hitoshi/careernest/internal/analyzer"
	"github.com/hitoshi/careernest/internal/auth"
	"github.com/hitoshi/careernest/internal/autoapply"
	"github.com/hitoshi/careernest/internal/metrics"
	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/repository"
)

// --- テストヘルパー ---

// authedRequest は認証済みプリンシパル付きのリクエストを生成する。
func authedRequest(method, target string) *http.Request {
	return authedRequestBody(method, target, "")
}

func authedRequestBody(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	ctx := middleware.ContextWithPrincipal(req.Context(), &model.Principal{ID: "user-1", Email: "user@example.com"})
	return req.WithContext(ctx)
}

// --- モック ---

type mockMetrics struct {
	loginSuccess     int
	loginFailure     int
	signUps          int
	analyses         int
	degradedAnalyses int
	latencies        int
	resumesScored    int
	autoApplyMatches int
}

func (m *mockMetrics) RecordLoginSuccess() { m.loginSuccess++ }
func (m *mockMetrics) RecordLoginFailure() { m.loginFailure++ }
func (m *mockMetrics) RecordSignUp()       { m.signUps++ }
func (m *mockMetrics) RecordAnalysis(degraded bool) {
	m.analyses++
	if degraded {
		m.degradedAnalyses++
	}
}
func (m *mockMetrics) RecordAnalysisLatency(time.Duration) { m.latencies++ }
func (m *mockMetrics) RecordResumeScored()                 { m.resumesScored++ }
func (m *mockMetrics) RecordAutoApplyMatches(count int)    { m.autoApplyMatches += count }

var _ metrics.MetricsCollector = (*mockMetrics)(nil)

type mockAuthService struct {
	signUpFunc         func(ctx context.Context, email, password string) (string, error)
	confirmEmailFunc   func(ctx context.Context, token string) error
	signInFunc         func(ctx context.Context, email, password string) (*model.Session, *model.Principal, error)
	logoutFunc         func(ctx context.Context, sessionID string) error
	resolveSessionFunc func(ctx context.Context, sessionID string) (*model.Principal, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password string) (string, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, email, password)
	}
	return "confirm-token", nil
}

func (m *mockAuthService) ConfirmEmail(ctx context.Context, token string) error {
	if m.confirmEmailFunc != nil {
		return m.confirmEmailFunc(ctx, token)
	}
	return nil
}

func (m *mockAuthService) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, *model.Principal, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, email, password)
	}
	return &model.Session{ID: "sess-1", UserID: "user-1"}, &model.Principal{ID: "user-1", Email: email}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) ResolveSession(ctx context.Context, sessionID string) (*model.Principal, error) {
	if m.resolveSessionFunc != nil {
		return m.resolveSessionFunc(ctx, sessionID)
	}
	return nil, nil
}

var (
	_ AuthServiceInterface       = (*mockAuthService)(nil)
	_ middleware.SessionResolver = (*mockAuthService)(nil)
)

type mockAuthEvents struct {
	listeners map[auth.ListenerToken]func(auth.Event)
	next      auth.ListenerToken
}

func newMockAuthEvents() *mockAuthEvents {
	return &mockAuthEvents{listeners: map[auth.ListenerToken]func(auth.Event){}}
}

func (m *mockAuthEvents) OnSessionChange(fn func(auth.Event)) auth.ListenerToken {
	token := m.next
	m.next++
	m.listeners[token] = fn
	return token
}

func (m *mockAuthEvents) RemoveSessionListener(token auth.ListenerToken) {
	delete(m.listeners, token)
}

func (m *mockAuthEvents) emit(ev auth.Event) {
	for _, fn := range m.listeners {
		fn(ev)
	}
}

var _ AuthEventsInterface = (*mockAuthEvents)(nil)

type mockAnalyzerService struct {
	analyzeFunc func(ctx context.Context, input analyzer.Input) model.AnalysisResult
}

func (m *mockAnalyzerService) Analyze(ctx context.Context, input analyzer.Input) model.AnalysisResult {
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, input)
	}
	return model.AnalysisResult{}
}

var _ AnalyzerServiceInterface = (*mockAnalyzerService)(nil)

type mockAutoApplyService struct {
	matchFunc func(prefs autoapply.Preferences) autoapply.Result
}

func (m *mockAutoApplyService) Match(prefs autoapply.Preferences) autoapply.Result {
	if m.matchFunc != nil {
		return m.matchFunc(prefs)
	}
	return autoapply.Result{Jobs: []model.JobWithContent{}}
}

var _ AutoApplyServiceInterface = (*mockAutoApplyService)(nil)

type mockResumeRepo struct {
	findByIDFunc        func(ctx context.Context, id string) (*model.Resume, error)
	listByUserEmailFunc func(ctx context.Context, userEmail string) ([]*model.Resume, error)
	createFunc          func(ctx context.Context, resume *model.Resume) error
	updateATSScoreFunc  func(ctx context.Context, id string, score int) error
}

func (m *mockResumeRepo) FindByID(ctx context.Context, id string) (*model.Resume, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockResumeRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*model.Resume, error) {
	if m.listByUserEmailFunc != nil {
		return m.listByUserEmailFunc(ctx, userEmail)
	}
	return nil, nil
}

func (m *mockResumeRepo) Create(ctx context.Context, resume *model.Resume) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, resume)
	}
	return nil
}

func (m *mockResumeRepo) UpdateATSScore(ctx context.Context, id string, score int) error {
	if m.updateATSScoreFunc != nil {
		return m.updateATSScoreFunc(ctx, id, score)
	}
	return nil
}

var _ repository.ResumeRepository = (*mockResumeRepo)(nil)

type mockApplicationRepo struct {
	createFunc          func(ctx context.Context, app *model.JobApplication) error
	listByUserEmailFunc func(ctx context.Context, userEmail string) ([]*model.JobApplication, error)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *model.JobApplication) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, app)
	}
	return nil
}

func (m *mockApplicationRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*model.JobApplication, error) {
	if m.listByUserEmailFunc != nil {
		return m.listByUserEmailFunc(ctx, userEmail)
	}
	return nil, nil
}

var _ repository.ApplicationRepository = (*mockApplicationRepo)(nil)
