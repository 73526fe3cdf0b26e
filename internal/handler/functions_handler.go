package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/careernest/internal/analyzer"
	"github.com/hitoshi/careernest/internal/autoapply"
	"github.com/hitoshi/careernest/internal/metrics"
	"github.com/hitoshi/careernest/internal/model"
)

// AnalyzerServiceInterface はキャリア分析ハンドラーが必要とするインターフェース。
type AnalyzerServiceInterface interface {
	Analyze(ctx context.Context, input analyzer.Input) model.AnalysisResult
}

// AutoApplyServiceInterface は自動応募ハンドラーが必要とするインターフェース。
type AutoApplyServiceInterface interface {
	Match(prefs autoapply.Preferences) autoapply.Result
}

// FunctionsHandler は/functions/v1/*のサーバーレス互換エンドポイントを提供する。
// 元のデプロイ構成との互換のため、エラーレスポンスは {"error": message}
// 形式を維持する。
type FunctionsHandler struct {
	analyzer  AnalyzerServiceInterface
	autoApply AutoApplyServiceInterface
	metrics   metrics.MetricsCollector
	timeout   time.Duration
}

// NewFunctionsHandler はFunctionsHandlerを生成する。
func NewFunctionsHandler(analyzerSvc AnalyzerServiceInterface, autoApplySvc AutoApplyServiceInterface, collector metrics.MetricsCollector, timeout time.Duration) *FunctionsHandler {
	return &FunctionsHandler{
		analyzer:  analyzerSvc,
		autoApply: autoApplySvc,
		metrics:   collector,
		timeout:   timeout,
	}
}

type analyzeCareerRequest struct {
	Resume            string   `json:"resume"`
	TargetRole        string   `json:"target_role"`
	Location          string   `json:"location"`
	InterviewFeedback []string `json:"interview_feedback"`
}

// AnalyzeCareer はキャリア分析を実行する。
// POST /functions/v1/analyze-career
//
// モデル応答が解析できない場合もエラーにせず、フォールバック分析を
// degradedフラグ付きで返す。
func (h *FunctionsHandler) AnalyzeCareer(w http.ResponseWriter, r *http.Request) {
	var req analyzeCareerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFunctionsError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	result := h.analyzer.Analyze(ctx, analyzer.Input{
		Resume:            req.Resume,
		TargetRole:        req.TargetRole,
		Location:          req.Location,
		InterviewFeedback: req.InterviewFeedback,
	})
	h.metrics.RecordAnalysisLatency(time.Since(start))
	h.metrics.RecordAnalysis(result.Degraded)

	// 分析本体のキーをトップレベルに展開し、縮退情報を併記する
	resp := map[string]any{
		"skillMap":       result.Analysis.SkillMap,
		"topRoles":       result.Analysis.TopRoles,
		"learningPath":   result.Analysis.LearningPath,
		"salaryForecast": result.Analysis.SalaryForecast,
		"industrySwitch": result.Analysis.IndustrySwitch,
		"readiness":      result.Analysis.Readiness,
	}
	if result.Degraded {
		resp["degraded"] = true
		resp["degraded_reason"] = result.DegradedReason
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type autoApplyRequest struct {
	UserEmail   string               `json:"user_email"`
	Preferences autoapply.Preferences `json:"preferences"`
}

// AutoApply は条件に合う求人を検索し、応募書類の下書き付きで返す。
// POST /functions/v1/auto-apply
//
// 応募のDB登録は行わない。候補一覧の返却のみ。
func (h *FunctionsHandler) AutoApply(w http.ResponseWriter, r *http.Request) {
	var req autoApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFunctionsError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	result := h.autoApply.Match(req.Preferences)
	h.metrics.RecordAutoApplyMatches(result.Found)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// writeFunctionsError は/functions/v1互換のエラーレスポンスを書き込む。
func writeFunctionsError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
