package model

import (
	"encoding/json"
	"time"
)

// ResumeType はレジュメの作成経路を表す。
type ResumeType string

const (
	// ResumeTypeBuilt はビルダーで作成されたレジュメを示す。
	ResumeTypeBuilt ResumeType = "built"
	// ResumeTypeUploaded はファイルアップロードされたレジュメを示す。
	ResumeTypeUploaded ResumeType = "uploaded"
)

// Valid はレジュメ種別が定義済みの値かどうかを返す。
func (t ResumeType) Valid() bool {
	return t == ResumeTypeBuilt || t == ResumeTypeUploaded
}

// Resume はユーザーのレジュメを表す。
// built の場合はResumeJSONに構造化データを、uploaded の場合はFileURLを保持する。
type Resume struct {
	ID            string
	UserEmail     string
	Type          ResumeType
	ResumeJSON    json.RawMessage
	FileURL       string
	ATSScore      *int
	SemanticMatch *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
