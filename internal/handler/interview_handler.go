package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/careernest/internal/interview"
)

// InterviewServiceInterface は模擬面接ハンドラーが必要とするインターフェース。
type InterviewServiceInterface interface {
	AnalyzeAnswer(ctx context.Context, videoOn bool) (interview.Feedback, error)
}

// InterviewHandler は模擬面接セッションのHTTPハンドラー。
type InterviewHandler struct {
	service InterviewServiceInterface
}

// NewInterviewHandler はInterviewHandlerを生成する。
func NewInterviewHandler(service InterviewServiceInterface) *InterviewHandler {
	return &InterviewHandler{service: service}
}

// Roles は選択可能な職種一覧を返す。
// GET /api/interview/roles
func (h *InterviewHandler) Roles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"roles": interview.Roles,
	})
}

type startSessionRequest struct {
	Role string `json:"role"`
}

// StartSession は模擬面接セッションを開始し、質問一覧を返す。
// POST /api/interview/session
func (h *InterviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !interview.ValidRole(req.Role) {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"role":      req.Role,
		"questions": interview.Questions,
	})
}

type answerRequest struct {
	QuestionIndex int  `json:"question_index"`
	VideoOn       bool `json:"video_on"`
}

// Answer は回答への分析フィードバックを返す。
// POST /api/interview/answer
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	question, ok := interview.Question(req.QuestionIndex)
	if !ok {
		http.Error(w, "question index out of range", http.StatusBadRequest)
		return
	}

	feedback, err := h.service.AnalyzeAnswer(r.Context(), req.VideoOn)
	if err != nil {
		slog.Warn("interview analysis canceled", slog.String("error", err.Error()))
		http.Error(w, "analysis canceled", http.StatusRequestTimeout)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"question": question,
		"feedback": feedback,
	})
}
