package ats

import "strings"

// keywords はスコアリングに使う固定キーワード一覧。
// 1語の一致ごとに均等配点し、全一致で100点になる。
var keywords = []string{
	"react",
	"typescript",
	"node",
	"javascript",
	"python",
	"sql",
	"aws",
	"docker",
	"agile",
	"leadership",
	"communication",
	"git",
}

// ScoreResult はATSスコアリングの結果を表す。
type ScoreResult struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Score は履歴書テキストのATSスコアを0〜100で算出する。
// 照合は大文字小文字を無視した部分一致で行う。
func Score(text string) ScoreResult {
	lowered := strings.ToLower(text)

	result := ScoreResult{
		Matched: []string{},
		Missing: []string{},
	}
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			result.Matched = append(result.Matched, kw)
		} else {
			result.Missing = append(result.Missing, kw)
		}
	}

	result.Score = len(result.Matched) * 100 / len(keywords)
	return result
}

// Keywords は照合対象キーワードの一覧のコピーを返す。
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}
