package model

// Job は求人レコードを表す。
type Job struct {
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	JobURL      string `json:"job_url"`
	Description string `json:"description"`
}

// AutoFilledContent は応募プレビュー用に自動生成された文面を表す。
type AutoFilledContent struct {
	CoverLetter   string `json:"cover_letter"`
	ResumeSnippet string `json:"resume_snippet"`
}

// JobWithContent は求人と自動生成文面の組を表す。
type JobWithContent struct {
	Job
	AutoFilledContent AutoFilledContent `json:"auto_filled_content"`
}
