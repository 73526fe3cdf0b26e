package model

import (
	"strings"
	"time"
)

// ApplicationStage は応募のダッシュボード表示上のステージを表す。
type ApplicationStage string

const (
	StageApplied     ApplicationStage = "Applied"
	StageShortlisted ApplicationStage = "Shortlisted"
	StageInterview   ApplicationStage = "Interview"
	StageOffer       ApplicationStage = "Offer"
	StageRejected    ApplicationStage = "Rejected"
)

// Stages はダッシュボード表示順のステージ一覧。
var Stages = []ApplicationStage{
	StageApplied, StageShortlisted, StageInterview, StageOffer, StageRejected,
}

// StageForStatus は応募ステータス文字列をステージに割り当てる。
// 未知のステータスはAppliedに分類する。
func StageForStatus(status string) ApplicationStage {
	switch strings.ToLower(status) {
	case "applied":
		return StageApplied
	case "shortlisted":
		return StageShortlisted
	case "interview":
		return StageInterview
	case "offer":
		return StageOffer
	case "rejected":
		return StageRejected
	default:
		return StageApplied
	}
}

// JobApplication はユーザーの求人応募レコードを表す。
type JobApplication struct {
	ID                string
	UserEmail         string
	JobID             string
	JobTitle          string
	Company           string
	Location          string
	Salary            string
	Status            string
	JobURL            string
	AutoFilledContent *AutoFilledContent
	AppliedAt         time.Time
}
