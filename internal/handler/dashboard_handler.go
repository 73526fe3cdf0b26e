package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/repository"
)

// DashboardHandler は進捗ダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	resumeRepo repository.ResumeRepository
	appRepo    repository.ApplicationRepository
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(resumeRepo repository.ResumeRepository, appRepo repository.ApplicationRepository) *DashboardHandler {
	return &DashboardHandler{
		resumeRepo: resumeRepo,
		appRepo:    appRepo,
	}
}

// stageCount はステージごとの応募数。表示順を保つため配列で返す。
type stageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

type dashboardResponse struct {
	Stages       []stageCount `json:"stages"`
	Applications int          `json:"applications"`
	Resumes      int          `json:"resumes"`
	// ATSTrend は直近5件のレジュメのATSスコア（古い順）。
	ATSTrend []int `json:"ats_trend"`
}

// Summary はダッシュボード表示用の集計を返す。
// GET /api/dashboard
//
// 未知の応募ステータスはAppliedに分類される。
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	apps, err := h.appRepo.ListByUserEmail(r.Context(), principal.Email)
	if err != nil {
		slog.Error("failed to list applications", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	resumes, err := h.resumeRepo.ListByUserEmail(r.Context(), principal.Email)
	if err != nil {
		slog.Error("failed to list resumes", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	counts := map[model.ApplicationStage]int{}
	for _, app := range apps {
		counts[model.StageForStatus(app.Status)]++
	}

	stages := make([]stageCount, 0, len(model.Stages))
	for _, stage := range model.Stages {
		stages = append(stages, stageCount{Stage: string(stage), Count: counts[stage]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dashboardResponse{
		Stages:       stages,
		Applications: len(apps),
		Resumes:      len(resumes),
		ATSTrend:     atsTrend(resumes, 5),
	})
}

// atsTrend はスコア付きレジュメの直近n件のスコアを古い順で返す。
// 一覧はcreated_at降順で渡される前提。
func atsTrend(resumes []*model.Resume, n int) []int {
	scored := make([]int, 0, n)
	for _, resume := range resumes {
		if resume.ATSScore == nil {
			continue
		}
		scored = append(scored, *resume.ATSScore)
		if len(scored) == n {
			break
		}
	}

	// 新しい順で集めたので反転する
	for i, j := 0, len(scored)-1; i < j; i, j = i+1, j-1 {
		scored[i], scored[j] = scored[j], scored[i]
	}
	return scored
}
