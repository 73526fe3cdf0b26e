package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/careernest/internal/export"
	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/repository"
)

// ApplicationHandler は求人応募の記録と一覧のHTTPハンドラー。
type ApplicationHandler struct {
	repo repository.ApplicationRepository
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(repo repository.ApplicationRepository) *ApplicationHandler {
	return &ApplicationHandler{repo: repo}
}

type createApplicationRequest struct {
	JobID             string                   `json:"job_id"`
	JobTitle          string                   `json:"job_title"`
	Company           string                   `json:"company"`
	Location          string                   `json:"location"`
	Salary            string                   `json:"salary"`
	Status            string                   `json:"status"`
	JobURL            string                   `json:"job_url"`
	AutoFilledContent *model.AutoFilledContent `json:"auto_filled_content"`
}

type applicationResponse struct {
	ID                string                   `json:"id"`
	JobID             string                   `json:"job_id"`
	JobTitle          string                   `json:"job_title"`
	Company           string                   `json:"company"`
	Location          string                   `json:"location"`
	Salary            string                   `json:"salary"`
	Status            string                   `json:"status"`
	Stage             string                   `json:"stage"`
	JobURL            string                   `json:"job_url"`
	AutoFilledContent *model.AutoFilledContent `json:"auto_filled_content,omitempty"`
	AppliedAt         time.Time                `json:"applied_at"`
}

// Create は応募レコードを登録する。
// POST /api/applications
//
// 自動応募のプレビューで承認された求人をユーザー操作で記録する経路。
// statusが空の場合はappliedとして扱う。
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.JobTitle == "" || req.Company == "" {
		http.Error(w, "job_title and company are required", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = "applied"
	}

	app := &model.JobApplication{
		ID:                uuid.New().String(),
		UserEmail:         principal.Email,
		JobID:             req.JobID,
		JobTitle:          req.JobTitle,
		Company:           req.Company,
		Location:          req.Location,
		Salary:            req.Salary,
		Status:            status,
		JobURL:            req.JobURL,
		AutoFilledContent: req.AutoFilledContent,
		AppliedAt:         time.Now(),
	}

	if err := h.repo.Create(r.Context(), app); err != nil {
		slog.Error("failed to create application", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toApplicationResponse(app))
}

// List はユーザーの応募一覧をapplied_at降順で返す。
// GET /api/applications
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	apps, err := h.repo.ListByUserEmail(r.Context(), principal.Email)
	if err != nil {
		slog.Error("failed to list applications", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Export は応募一覧をxlsxワークブックでダウンロードさせる。
// GET /api/applications/export
func (h *ApplicationHandler) Export(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	apps, err := h.repo.ListByUserEmail(r.Context(), principal.Email)
	if err != nil {
		slog.Error("failed to list applications for export", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.xlsx"`)

	if err := export.WriteApplicationsXLSX(w, apps); err != nil {
		// ヘッダー送信後はエラーレスポンスを返せないためログのみ
		slog.Error("failed to write xlsx export", slog.String("error", err.Error()))
	}
}

func toApplicationResponse(app *model.JobApplication) applicationResponse {
	return applicationResponse{
		ID:                app.ID,
		JobID:             app.JobID,
		JobTitle:          app.JobTitle,
		Company:           app.Company,
		Location:          app.Location,
		Salary:            app.Salary,
		Status:            app.Status,
		Stage:             string(model.StageForStatus(app.Status)),
		JobURL:            app.JobURL,
		AutoFilledContent: app.AutoFilledContent,
		AppliedAt:         app.AppliedAt,
	}
}
