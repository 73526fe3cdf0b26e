// Package route はパスからビューへの静的ルートテーブルを提供する。
package route

import (
	"strings"

	"github.com/hitoshi/careernest/internal/model"
)

// ビュー名
const (
	ViewLanding                = "landing"
	ViewFeatures               = "features"
	ViewLogin                  = "login"
	ViewFeatureDetails         = "feature-details"
	ViewResumeBuilder          = "resume-builder"
	ViewATSEngineDemo          = "ats-engine-demo"
	ViewInterviewSimulator     = "interview-simulator"
	ViewMockInterviewSession   = "mock-interview-session"
	ViewInterviewSimulatorDemo = "interview-simulator-demo"
	ViewCareerAnalyzer         = "career-analyzer"
	ViewCareerAnalyzerDemo     = "career-analyzer-demo"
	ViewAutoApply              = "auto-apply"
	ViewDashboard              = "dashboard"
	ViewNotFound               = "not-found"
)

// LoginPath はログインビューのパス。認証ゲートのリダイレクト先。
const LoginPath = "/login"

// DefaultPath はログイン成功後のデフォルト遷移先。
const DefaultPath = "/dashboard"

// CatchAllPattern はどのパスにも一致しなかった場合のパターン。テーブル末尾に置く。
const CatchAllPattern = "*"

// Table は順序付きルートテーブル。構築後は不変。
//
// 解決は先頭から順に行い、最初に一致したエントリが勝つ。同一パターンが
// 重複して登録された場合も先のエントリが暗黙に勝つ（仕様上の既知の挙動）。
type Table struct {
	entries []model.RouteDescriptor
}

// NewTable は静的エントリと機能ディスクリプタからルートテーブルを構築する。
// 機能由来のエントリは静的エントリの後、キャッチオールの前に、
// ディスクリプタの順序どおりに挿入される。
func NewTable(features []model.FeatureDescriptor) *Table {
	entries := []model.RouteDescriptor{
		{PathPattern: "/", View: ViewLanding},
		{PathPattern: "/features", View: ViewFeatures},
		{PathPattern: LoginPath, View: ViewLogin},
		{PathPattern: "/resume-builder", View: ViewResumeBuilder, Deferred: true},
		{PathPattern: "/ats-engine/demo", View: ViewATSEngineDemo, Deferred: true},
		{PathPattern: "/interview-simulator", View: ViewInterviewSimulator},
		{PathPattern: "/mock-interview-session", View: ViewMockInterviewSession, Deferred: true},
		{PathPattern: "/interview-simulator/demo", View: ViewInterviewSimulatorDemo, Deferred: true},
		{PathPattern: "/career-analyzer", View: ViewCareerAnalyzer},
		{PathPattern: "/career-analyzer/demo", View: ViewCareerAnalyzerDemo, Deferred: true},
		{PathPattern: "/auto-apply", View: ViewAutoApply, Deferred: true},
		{PathPattern: "/auto-apply/demo", View: ViewAutoApply},
		{PathPattern: "/dashboard", View: ViewDashboard, RequiresAuth: true},
		{PathPattern: "/dashboard/demo", View: ViewDashboard, RequiresAuth: true},
	}

	for _, f := range features {
		entries = append(entries, model.RouteDescriptor{
			PathPattern: f.Route,
			View:        ViewFeatureDetails,
		})
	}

	entries = append(entries, model.RouteDescriptor{
		PathPattern: CatchAllPattern,
		View:        ViewNotFound,
	})

	return &Table{entries: entries}
}

// Resolve はパスに一致するルートを返す。
// 一致するエントリが存在しない場合（キャッチオール未登録のテーブル）のみ
// okがfalseになる。通常はキャッチオールがnot-foundビューを返す。
func (t *Table) Resolve(path string) (model.RouteDescriptor, bool) {
	path = normalize(path)

	for _, e := range t.entries {
		if e.PathPattern == CatchAllPattern || e.PathPattern == path {
			return e, true
		}
	}

	return model.RouteDescriptor{}, false
}

// Entries は登録順のエントリ一覧のコピーを返す。
func (t *Table) Entries() []model.RouteDescriptor {
	out := make([]model.RouteDescriptor, len(t.entries))
	copy(out, t.entries)
	return out
}

// normalize は末尾スラッシュを除去する（ルートパスを除く）。
func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
