// Package interview は模擬面接セッションの進行とフィードバック生成を提供する。
package interview

import (
	"context"
	"time"
)

// Roles は模擬面接で選択できる職種の一覧。
var Roles = []string{
	"Frontend Developer",
	"Backend Developer",
	"Data Analyst",
	"Product Manager",
	"UX Designer",
}

// Questions は模擬面接の固定質問一覧。セッション内でこの順に出題する。
var Questions = []string{
	"Tell me about a time you solved a challenging problem at work.",
	"How would you approach optimizing our web app’s performance?",
	"Describe your experience with cross-functional teams.",
	"What motivates you to excel in this role?",
	"Can you walk us through a relevant project from your resume?",
}

// feedbackDelay はAI処理を模した待ち時間。
const feedbackDelay = 1800 * time.Millisecond

// Feedback は1回答に対する分析結果。
type Feedback struct {
	SentimentScore  string `json:"sentimentScore"`
	ConfidenceScore string `json:"confidenceScore"`
	Transcript      string `json:"transcript"`
	BodyLanguage    string `json:"bodyLanguage"`
}

// Service は模擬面接のフィードバック生成を行う。
// 現状は音声・映像分析のシミュレーション実装で、固定の評価を返す。
type Service struct {
	delay time.Duration
}

// NewService はServiceを生成する。
func NewService() *Service {
	return &Service{delay: feedbackDelay}
}

// ValidRole は選択可能な職種かどうかを返す。
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Question はインデックスに対応する質問を返す。範囲外はfalse。
func Question(idx int) (string, bool) {
	if idx < 0 || idx >= len(Questions) {
		return "", false
	}
	return Questions[idx], true
}

// AnalyzeAnswer は回答への分析フィードバックを返す。
// 処理遅延を模して一定時間待つ。コンテキスト打ち切りで即座に中断する。
func (s *Service) AnalyzeAnswer(ctx context.Context, videoOn bool) (Feedback, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return Feedback{}, ctx.Err()
	}

	bodyLanguage := "N/A (video off)"
	if videoOn {
		bodyLanguage = "Engaged & attentive"
	}

	return Feedback{
		SentimentScore:  "Positive",
		ConfidenceScore: "High",
		Transcript:      "I led a migration to React and solved critical bugs...",
		BodyLanguage:    bodyLanguage,
	}, nil
}
