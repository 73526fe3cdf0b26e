package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/careernest/internal/model"
)

// systemMessage は分析プロンプトのシステムメッセージ。
const systemMessage = "You are a helpful career AI assistant."

// Input はキャリア分析への入力。
type Input struct {
	Resume            string   `json:"resume"`
	TargetRole        string   `json:"target_role"`
	Location          string   `json:"location"`
	InterviewFeedback []string `json:"interview_feedback"`
}

// Service はチャット補完を使ったキャリア分析を行う。
// モデル応答の解析に失敗した場合は固定のフォールバック分析に縮退し、
// エラーにはしない。
type Service struct {
	client ChatClient
}

// NewService はServiceを生成する。
func NewService(client ChatClient) *Service {
	return &Service{client: client}
}

// Analyze はキャリア分析を実行する。
// モデル呼び出しの失敗や応答の解析失敗ではフォールバック分析を返し、
// Degradedフラグで縮退を通知する。エラーを返すのは入力不備のみ。
func (s *Service) Analyze(ctx context.Context, input Input) model.AnalysisResult {
	feedback, err := json.Marshal(input.InterviewFeedback)
	if err != nil {
		feedback = []byte("[]")
	}

	prompt := fmt.Sprintf(`
      "You are an expert AI career analyst. Here is the user data:
      Resume: %s
      Interview Feedback: %s
      Target Role: %s
      Location: %s
      Analyze skill gaps (user skills vs. market), suggest top 3 new career roles, learning paths (with certifications), salary trends, and industry switch feasibility.
      Output JSON with keys: skillMap (array of { skill, user, market }), topRoles (array of { title, reason }), learningPath (array of { label, url }), salaryForecast (array of { year, min, max }), industrySwitch (string: Feasible|Challenging|Not Advised), readiness (0-100)."
    `, input.Resume, feedback, input.TargetRole, input.Location)

	text, err := s.client.Complete(ctx, systemMessage, prompt)
	if err != nil {
		slog.Warn("Career analysis degraded to fallback",
			slog.String("reason", "completion_failed"),
			slog.String("error", err.Error()))
		return degraded("completion_failed")
	}

	analysis, ok := parseAnalysis(text)
	if !ok {
		slog.Warn("Career analysis degraded to fallback",
			slog.String("reason", "unparsable_response"))
		return degraded("unparsable_response")
	}

	return model.AnalysisResult{Analysis: analysis}
}

// parseAnalysis はモデル応答から最初の '{' から最後の '}' までを
// JSONとして取り出す。skillMapを欠く応答は解析失敗として扱う。
func parseAnalysis(text string) (model.CareerAnalysis, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return model.CareerAnalysis{}, false
	}

	var analysis model.CareerAnalysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
		return model.CareerAnalysis{}, false
	}
	if len(analysis.SkillMap) == 0 {
		return model.CareerAnalysis{}, false
	}

	return analysis, true
}

func degraded(reason string) model.AnalysisResult {
	return model.AnalysisResult{
		Analysis:       fallbackAnalysis(),
		Degraded:       true,
		DegradedReason: reason,
	}
}

// fallbackAnalysis はモデル応答が得られない場合に返す固定の分析結果。
func fallbackAnalysis() model.CareerAnalysis {
	return model.CareerAnalysis{
		SkillMap: []model.SkillGap{
			{Skill: "React", User: 7, Market: 9},
			{Skill: "TypeScript", User: 6, Market: 8},
			{Skill: "Node.js", User: 5, Market: 7},
			{Skill: "Leadership", User: 5, Market: 9},
			{Skill: "Project Mgmt", User: 6, Market: 8},
		},
		TopRoles: []model.RoleSuggestion{
			{Title: "Tech Lead", Reason: "Strong frontend skills and emerging leadership"},
			{Title: "Product Manager", Reason: "Experience in cross-team collaboration"},
			{Title: "Developer Advocate", Reason: "Strong communication and engineering background"},
		},
		LearningPath: []model.LearningStep{
			{Label: "AWS Certified Solutions Architect", URL: "https://aws.amazon.com/certification/certified-solutions-architect-associate/"},
			{Label: "Scrum Master Cert", URL: "https://www.scrum.org/professional-scrum-certifications"},
			{Label: "Udemy: Advanced React", URL: "https://www.udemy.com/course/advanced-react-and-redux/"},
		},
		SalaryForecast: []model.SalaryForecast{
			{Year: 2024, Min: 120, Max: 175},
			{Year: 2025, Min: 135, Max: 200},
		},
		IndustrySwitch: "Feasible",
		Readiness:      77,
	}
}
