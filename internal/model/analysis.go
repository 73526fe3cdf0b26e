package model

// SkillGap はユーザーのスキルレベルと市場要求レベルの対を表す。
type SkillGap struct {
	Skill  string `json:"skill"`
	User   int    `json:"user"`
	Market int    `json:"market"`
}

// RoleSuggestion は提案されたキャリアロールと理由を表す。
type RoleSuggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// LearningStep は推奨される学習リソース・資格を表す。
type LearningStep struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SalaryForecast は年次ごとの想定報酬レンジ（千ドル単位）を表す。
type SalaryForecast struct {
	Year int `json:"year"`
	Min  int `json:"min"`
	Max  int `json:"max"`
}

// CareerAnalysis はキャリア分析の結果本体を表す。
type CareerAnalysis struct {
	SkillMap       []SkillGap       `json:"skillMap"`
	TopRoles       []RoleSuggestion `json:"topRoles"`
	LearningPath   []LearningStep   `json:"learningPath"`
	SalaryForecast []SalaryForecast `json:"salaryForecast"`
	IndustrySwitch string           `json:"industrySwitch"`
	Readiness      int              `json:"readiness"`
}

// AnalysisResult は分析結果と、それが本物の分析かフォールバックかの区別を表す。
// バックエンド障害時はDegraded=trueの固定ペイロードを返し、呼び出し側が
// 縮退モードであることを利用者に提示できるようにする。
type AnalysisResult struct {
	Analysis       CareerAnalysis
	Degraded       bool
	DegradedReason string
}
