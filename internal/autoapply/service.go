// Package autoapply は求人の自動マッチングと応募書類の自動生成を提供する。
package autoapply

import (
	"fmt"
	"strings"

	"github.com/hitoshi/careernest/internal/model"
)

// demoJobs はデモ用の求人ソース。将来は求人APIやスクレイピングに置き換える。
var demoJobs = []model.Job{
	{
		JobID:       "123",
		JobTitle:    "Frontend Engineer",
		Company:     "Acme Corp",
		Location:    "Remote",
		Salary:      "$120k-$150k",
		JobURL:      "https://acme.example/job/123",
		Description: "React, TypeScript, Tailwind, 3+ years experience",
	},
	{
		JobID:       "456",
		JobTitle:    "Full Stack Developer",
		Company:     "Globex LLC",
		Location:    "NYC",
		Salary:      "$140k-$160k",
		JobURL:      "https://globex.example/job/456",
		Description: "Node.js, React, AWS, 4+ years experience",
	},
}

// Preferences は求人フィルタの条件。空のフィールドは条件なしとして扱う。
type Preferences struct {
	Role     string `json:"role"`
	Location string `json:"location"`
}

// Result は自動応募のマッチング結果。応募のDB登録は行わず、
// プレビュー用の候補一覧のみを返す。
type Result struct {
	Found int                    `json:"found"`
	Jobs  []model.JobWithContent `json:"jobs"`
}

// Service は求人マッチングを行う。
type Service struct {
	jobs []model.Job
}

// NewService はデモ求人ソースを持つServiceを生成する。
func NewService() *Service {
	return &Service{jobs: demoJobs}
}

// Match は条件に一致する求人を探し、応募書類の下書きを付けて返す。
// 照合は大文字小文字を無視した部分一致。
func (s *Service) Match(prefs Preferences) Result {
	result := Result{Jobs: []model.JobWithContent{}}

	for _, job := range s.jobs {
		if !matches(prefs, job) {
			continue
		}
		result.Jobs = append(result.Jobs, model.JobWithContent{
			Job:               job,
			AutoFilledContent: composeContent(job),
		})
	}

	result.Found = len(result.Jobs)
	return result
}

func matches(prefs Preferences, job model.Job) bool {
	if prefs.Role != "" && !strings.Contains(strings.ToLower(job.JobTitle), strings.ToLower(prefs.Role)) {
		return false
	}
	if prefs.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(prefs.Location)) {
		return false
	}
	return true
}

// composeContent は応募プレビュー用の定型文を組み立てる。
func composeContent(job model.Job) model.AutoFilledContent {
	return model.AutoFilledContent{
		CoverLetter:   fmt.Sprintf("Dear %s, I am enthusiastic about the %s position.", job.Company, job.JobTitle),
		ResumeSnippet: "Extensive experience with React and Node.js...",
	}
}
