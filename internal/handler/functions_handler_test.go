package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/careernest/internal/analyzer"
	"github.com/hitoshi/careernest/internal/autoapply"
	"github.com/hitoshi/careernest/internal/model"
)

// TestAnalyzeCareer_Success は分析結果のキーがトップレベルに展開される
// ことを検証する。
func TestAnalyzeCareer_Success(t *testing.T) {
	analyzerSvc := &mockAnalyzerService{
		analyzeFunc: func(ctx context.Context, input analyzer.Input) model.AnalysisResult {
			return model.AnalysisResult{
				Analysis: model.CareerAnalysis{
					SkillMap:       []model.SkillGap{{Skill: "React", User: 6, Market: 9}},
					IndustrySwitch: "Feasible",
					Readiness:      82,
				},
			}
		},
	}
	collector := &mockMetrics{}
	h := NewFunctionsHandler(analyzerSvc, &mockAutoApplyService{}, collector, 30*time.Second)

	body := `{"resume": "React engineer", "target_role": "Tech Lead", "location": "Tokyo"}`
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/analyze-career", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.AnalyzeCareer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["industrySwitch"] != "Feasible" {
		t.Errorf("industrySwitch = %v", resp["industrySwitch"])
	}
	if resp["readiness"] != float64(82) {
		t.Errorf("readiness = %v, want 82", resp["readiness"])
	}
	if _, ok := resp["degraded"]; ok {
		t.Error("degraded must be omitted for successful analysis")
	}
	if collector.analyses != 1 || collector.degradedAnalyses != 0 {
		t.Errorf("analyses = %d (degraded %d), want 1 (0)", collector.analyses, collector.degradedAnalyses)
	}
	if collector.latencies != 1 {
		t.Errorf("latency observations = %d, want 1", collector.latencies)
	}
}

// TestAnalyzeCareer_Degraded は縮退時にdegraded情報が併記されることを検証する。
func TestAnalyzeCareer_Degraded(t *testing.T) {
	analyzerSvc := &mockAnalyzerService{
		analyzeFunc: func(ctx context.Context, input analyzer.Input) model.AnalysisResult {
			return model.AnalysisResult{
				Analysis:       model.CareerAnalysis{Readiness: 77},
				Degraded:       true,
				DegradedReason: "completion_failed",
			}
		},
	}
	collector := &mockMetrics{}
	h := NewFunctionsHandler(analyzerSvc, &mockAutoApplyService{}, collector, 30*time.Second)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/analyze-career", strings.NewReader(`{"resume": "x"}`))
	rec := httptest.NewRecorder()

	h.AnalyzeCareer(rec, req)

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["degraded"] != true {
		t.Error("expected degraded flag")
	}
	if resp["degraded_reason"] != "completion_failed" {
		t.Errorf("degraded_reason = %v", resp["degraded_reason"])
	}
	if collector.degradedAnalyses != 1 {
		t.Errorf("degradedAnalyses = %d, want 1", collector.degradedAnalyses)
	}
}

// TestAnalyzeCareer_InvalidBody は壊れたリクエストボディのエラーフォーマットを検証する。
func TestAnalyzeCareer_InvalidBody(t *testing.T) {
	h := NewFunctionsHandler(&mockAnalyzerService{}, &mockAutoApplyService{}, &mockMetrics{}, 30*time.Second)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/analyze-career", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	h.AnalyzeCareer(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected {\"error\": message} response")
	}
}

// TestAutoApply はマッチング結果の返却とメトリクス記録を検証する。
func TestAutoApply(t *testing.T) {
	autoApplySvc := &mockAutoApplyService{
		matchFunc: func(prefs autoapply.Preferences) autoapply.Result {
			if prefs.Role != "Engineer" {
				t.Errorf("role = %q, want Engineer", prefs.Role)
			}
			return autoapply.Result{
				Found: 1,
				Jobs: []model.JobWithContent{{
					Job: model.Job{JobID: "123", JobTitle: "Frontend Engineer", Company: "Acme Corp"},
				}},
			}
		},
	}
	collector := &mockMetrics{}
	h := NewFunctionsHandler(&mockAnalyzerService{}, autoApplySvc, collector, 30*time.Second)

	body := `{"user_email": "user@example.com", "preferences": {"role": "Engineer"}}`
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/auto-apply", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.AutoApply(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Found int `json:"found"`
		Jobs  []struct {
			Company string `json:"company"`
		} `json:"jobs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Found != 1 || len(resp.Jobs) != 1 {
		t.Fatalf("found = %d, jobs = %d", resp.Found, len(resp.Jobs))
	}
	if resp.Jobs[0].Company != "Acme Corp" {
		t.Errorf("company = %q", resp.Jobs[0].Company)
	}
	if collector.autoApplyMatches != 1 {
		t.Errorf("autoApplyMatches = %d, want 1", collector.autoApplyMatches)
	}
}
