package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/careernest/internal/ats"
	"github.com/hitoshi/careernest/internal/metrics"
	"github.com/hitoshi/careernest/internal/middleware"
	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/repository"
	"github.com/hitoshi/careernest/internal/security"
)

// ResumeHandlerConfig はレジュメハンドラーの設定。
type ResumeHandlerConfig struct {
	FetchTimeout time.Duration // file_url取得のタイムアウト
	FetchMaxSize int64         // file_url取得の最大サイズ（バイト）
}

// ResumeHandler はレジュメ管理のHTTPハンドラー。
// アップロードレジュメのfile_url取得はSSRF防止クライアント経由で行う。
type ResumeHandler struct {
	repo       repository.ResumeRepository
	guard      security.SSRFGuardService
	sanitizer  security.ContentSanitizerService
	metrics    metrics.MetricsCollector
	config     ResumeHandlerConfig
	safeClient *http.Client
}

// NewResumeHandler はResumeHandlerを生成する。
func NewResumeHandler(
	repo repository.ResumeRepository,
	guard security.SSRFGuardService,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
	config ResumeHandlerConfig,
) *ResumeHandler {
	return &ResumeHandler{
		repo:       repo,
		guard:      guard,
		sanitizer:  sanitizer,
		metrics:    collector,
		config:     config,
		safeClient: guard.NewSafeClient(config.FetchTimeout),
	}
}

type createResumeRequest struct {
	Type       string          `json:"type"`
	ResumeJSON json.RawMessage `json:"resume_json"`
	FileURL    string          `json:"file_url"`
}

// resumeResponse はレジュメのJSON表現。
type resumeResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	ResumeJSON    json.RawMessage `json:"resume_json,omitempty"`
	FileURL       string          `json:"file_url,omitempty"`
	ATSScore      *int            `json:"ats_score"`
	SemanticMatch *int            `json:"semantic_match"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Create はレジュメを登録する。
// POST /api/resumes
//
// type=built はresume_jsonを、type=uploaded はfile_urlを必須とする。
// uploadedの場合はこの時点でファイルを取得してATSスコアを算出する。
func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resumeType := model.ResumeType(req.Type)
	if !resumeType.Valid() {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidResumeTypeError(req.Type))
		return
	}

	now := time.Now()
	resume := &model.Resume{
		ID:        uuid.New().String(),
		UserEmail: principal.Email,
		Type:      resumeType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch resumeType {
	case model.ResumeTypeBuilt:
		if len(req.ResumeJSON) == 0 {
			http.Error(w, "resume_json is required for built resumes", http.StatusBadRequest)
			return
		}
		sanitized, err := h.sanitizeResumeJSON(req.ResumeJSON)
		if err != nil {
			http.Error(w, "invalid resume_json", http.StatusBadRequest)
			return
		}
		resume.ResumeJSON = sanitized

	case model.ResumeTypeUploaded:
		if req.FileURL == "" {
			http.Error(w, "file_url is required for uploaded resumes", http.StatusBadRequest)
			return
		}
		if err := h.guard.ValidateURL(req.FileURL); err != nil {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidFileURLError(err.Error()))
			return
		}
		resume.FileURL = req.FileURL

		text, apiErr := h.fetchAndExtract(r.Context(), req.FileURL)
		if apiErr != nil {
			middleware.WriteErrorResponse(w, statusForAPIError(apiErr), apiErr)
			return
		}
		score := ats.Score(text).Score
		resume.ATSScore = &score
		h.metrics.RecordResumeScored()
	}

	if err := h.repo.Create(r.Context(), resume); err != nil {
		slog.Error("failed to create resume", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResumeResponse(resume))
}

// List はユーザーのレジュメ一覧を返す。
// GET /api/resumes
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resumes, err := h.repo.ListByUserEmail(r.Context(), principal.Email)
	if err != nil {
		slog.Error("failed to list resumes", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	out := make([]resumeResponse, 0, len(resumes))
	for _, resume := range resumes {
		out = append(out, toResumeResponse(resume))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Score はレジュメのATSスコアを算出して保存する。
// POST /api/resumes/{id}/score
func (h *ResumeHandler) Score(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resumeID := chi.URLParam(r, "id")

	resume, err := h.repo.FindByID(r.Context(), resumeID)
	if err != nil {
		slog.Error("failed to find resume", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	if resume == nil || resume.UserEmail != principal.Email {
		// 他ユーザーのレジュメは存在を秘匿する
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewResumeNotFoundError(resumeID))
		return
	}

	var text string
	switch resume.Type {
	case model.ResumeTypeBuilt:
		text = collectJSONText(resume.ResumeJSON)
	case model.ResumeTypeUploaded:
		extracted, apiErr := h.fetchAndExtract(r.Context(), resume.FileURL)
		if apiErr != nil {
			middleware.WriteErrorResponse(w, statusForAPIError(apiErr), apiErr)
			return
		}
		text = extracted
	}

	result := ats.Score(text)
	if err := h.repo.UpdateATSScore(r.Context(), resume.ID, result.Score); err != nil {
		slog.Error("failed to update ats score", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	h.metrics.RecordResumeScored()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// fetchAndExtract はfile_urlからファイルを取得し、プレーンテキストを抽出する。
// SSRF防止クライアントを使用し、サイズ上限を超える応答は打ち切る。
func (h *ResumeHandler) fetchAndExtract(ctx context.Context, fileURL string) (string, *model.APIError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", model.NewInvalidFileURLError(err.Error())
	}

	resp, err := h.safeClient.Do(req)
	if err != nil {
		return "", model.NewInvalidFileURLError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewInvalidFileURLError(fmt.Sprintf("fetch returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.config.FetchMaxSize))
	if err != nil {
		return "", model.NewInvalidFileURLError(err.Error())
	}

	text, err := ats.ExtractText(data, resp.Header.Get("Content-Type"))
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return "", apiErr
		}
		return "", model.NewUnsupportedFileTypeError(resp.Header.Get("Content-Type"))
	}

	return h.sanitizer.SanitizeText(text), nil
}

// sanitizeResumeJSON はレジュメJSON内のすべての文字列値をサニタイズする。
func (h *ResumeHandler) sanitizeResumeJSON(raw json.RawMessage) (json.RawMessage, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}

	sanitized := h.sanitizeValue(value)

	out, err := json.Marshal(sanitized)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *ResumeHandler) sanitizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return h.sanitizer.Sanitize(v)
	case map[string]any:
		for key, elem := range v {
			v[key] = h.sanitizeValue(elem)
		}
		return v
	case []any:
		for i, elem := range v {
			v[i] = h.sanitizeValue(elem)
		}
		return v
	default:
		return v
	}
}

// collectJSONText はJSON内の文字列値を連結してスコアリング対象テキストを作る。
func collectJSONText(raw json.RawMessage) string {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			b.WriteString(t)
			b.WriteString(" ")
		case map[string]any:
			for _, elem := range t {
				walk(elem)
			}
		case []any:
			for _, elem := range t {
				walk(elem)
			}
		}
	}
	walk(value)

	return b.String()
}

func toResumeResponse(resume *model.Resume) resumeResponse {
	return resumeResponse{
		ID:            resume.ID,
		Type:          string(resume.Type),
		ResumeJSON:    resume.ResumeJSON,
		FileURL:       resume.FileURL,
		ATSScore:      resume.ATSScore,
		SemanticMatch: resume.SemanticMatch,
		CreatedAt:     resume.CreatedAt,
	}
}
