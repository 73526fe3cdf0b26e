package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/careernest/internal/model"
)

func intPtr(n int) *int { return &n }

// TestSummary はステージ集計・件数・ATSトレンドの返却を検証する。
func TestSummary(t *testing.T) {
	appRepo := &mockApplicationRepo{
		listByUserEmailFunc: func(ctx context.Context, userEmail string) ([]*model.JobApplication, error) {
			return []*model.JobApplication{
				{ID: "a1", Status: "applied"},
				{ID: "a2", Status: "interview"},
				{ID: "a3", Status: "Interview"},
				{ID: "a4", Status: "mystery-status"}, // 未知はAppliedに分類
			}, nil
		},
	}
	// created_at降順（新しい順）で返る前提
	resumeRepo := &mockResumeRepo{
		listByUserEmailFunc: func(ctx context.Context, userEmail string) ([]*model.Resume, error) {
			return []*model.Resume{
				{ID: "r1", ATSScore: intPtr(90)},
				{ID: "r2", ATSScore: nil},
				{ID: "r3", ATSScore: intPtr(70)},
			}, nil
		},
	}
	h := NewDashboardHandler(resumeRepo, appRepo)

	rec := httptest.NewRecorder()
	h.Summary(rec, authedRequest(http.MethodGet, "/api/dashboard"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Stages []struct {
			Stage string `json:"stage"`
			Count int    `json:"count"`
		} `json:"stages"`
		Applications int   `json:"applications"`
		Resumes      int   `json:"resumes"`
		ATSTrend     []int `json:"ats_trend"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Applications != 4 {
		t.Errorf("applications = %d, want 4", resp.Applications)
	}
	if resp.Resumes != 3 {
		t.Errorf("resumes = %d, want 3", resp.Resumes)
	}

	wantStages := map[string]int{
		"Applied":     2, // applied + 未知ステータス
		"Shortlisted": 0,
		"Interview":   2,
		"Offer":       0,
		"Rejected":    0,
	}
	if len(resp.Stages) != len(model.Stages) {
		t.Fatalf("stages = %d, want %d", len(resp.Stages), len(model.Stages))
	}
	for _, sc := range resp.Stages {
		if want, ok := wantStages[sc.Stage]; !ok || sc.Count != want {
			t.Errorf("stage %q count = %d, want %d", sc.Stage, sc.Count, want)
		}
	}

	// 新しい順で集計され、古い順に並び替えられる
	if len(resp.ATSTrend) != 2 || resp.ATSTrend[0] != 70 || resp.ATSTrend[1] != 90 {
		t.Errorf("ats_trend = %v, want [70 90]", resp.ATSTrend)
	}
}

// TestSummary_Unauthorized はプリンシパルなしで401が返ることを検証する。
func TestSummary_Unauthorized(t *testing.T) {
	h := NewDashboardHandler(&mockResumeRepo{}, &mockApplicationRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	h.Summary(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
