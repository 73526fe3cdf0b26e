package model

// ClientSession はナビゲーションコントローラが参照するセッション状態を表す。
// 初回の認証通知が届くまではLoading=trueのまま保持される。
type ClientSession struct {
	Identity *Principal
	Loading  bool
}

// RouteDescriptor はパスパターンからビューへの静的な対応を表す。
// テーブル構築後は不変として扱う。
type RouteDescriptor struct {
	PathPattern  string
	View         string
	RequiresAuth bool
	Deferred     bool
}

// FeatureDescriptor は機能紹介ページの宣言的な定義を表す。
// ルートテーブルのエントリ生成元にもなる。
type FeatureDescriptor struct {
	Route       string
	Title       string
	Summary     string
	Hero        string
	FeatureList []string
	CTALabel    string
	DemoPath    string
}
