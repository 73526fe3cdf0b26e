// Package login はログイン・サインアップのフロー状態機械を提供する。
package login

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/navigation/route"
)

// State はフローの状態を表す。
type State string

const (
	// StateIdle は入力待ち状態を示す。
	StateIdle State = "idle"
	// StateSubmitting はコラボレーター呼び出し中の状態を示す。
	// この間の再送信は拒否される。
	StateSubmitting State = "submitting"
)

// MinPasswordLength はローカル検証で要求するパスワードの最小長。
const MinPasswordLength = 5

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail はメールアドレスが許容形式かどうかを返す。前後の空白は無視する。
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// 利用者向けの定型メッセージ
const (
	noticeInvalidEmail    = "Please enter a valid email address."
	noticePasswordShort   = "Password too short (min 5 characters)"
	noticeSignUpSucceeded = "Signup successful! Check your email to confirm your account."
)

// Authenticator はフローが必要とする認証コラボレーターのインターフェース。
type Authenticator interface {
	// SignInWithPassword は既存アカウントでサインインする。
	SignInWithPassword(ctx context.Context, email, password string) (*model.Principal, error)
	// SignUp は新規アカウントを作成する。作成直後はメール確認待ちで利用できない。
	SignUp(ctx context.Context, email, password string) error
}

// Flow はログインフローの状態機械。
//
// idle -> submitting -> idle の遷移のみを持ち、submitting中の再送信は
// 副作用なしで拒否される。ローカル検証に失敗した送信はコラボレーターを
// 一切呼び出さない。通知メッセージは一定時間後に自動消去される。
type Flow struct {
	auth      Authenticator
	navigate  func(path string)
	noticeTTL time.Duration

	mu          sync.Mutex
	state       State
	notice      string
	noticeTimer *time.Timer
	pending     string
	closed      bool
}

// NewFlow はFlowを生成する。navigateは遷移先パスを受け取るコールバック。
func NewFlow(auth Authenticator, navigate func(path string), noticeTTL time.Duration) *Flow {
	return &Flow{
		auth:      auth,
		navigate:  navigate,
		noticeTTL: noticeTTL,
		state:     StateIdle,
	}
}

// State は現在の状態を返す。
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Notice は現在表示中の通知メッセージを返す。空文字は通知なし。
func (f *Flow) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// SetPendingTarget は認証ゲートが付与した元々の要求パスを設定する。
// サインイン成功時に1回だけ消費される。
func (f *Flow) SetPendingTarget(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = path
}

// PendingTarget は未消費のリダイレクト先を返す。
func (f *Flow) PendingTarget() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Close はフローを破棄する。以後に完了した呼び出しの結果は破棄され、
// 状態は変更されない。
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.noticeTimer != nil {
		f.noticeTimer.Stop()
		f.noticeTimer = nil
	}
}

// SubmitSignIn はサインインを送信する。
// 受理された場合はtrueを返す。submitting中の再送信はfalseを返し、
// 何も行わない。
func (f *Flow) SubmitSignIn(ctx context.Context, email, password string) bool {
	if !f.begin(email, password) {
		return false
	}

	principal, err := f.auth.SignInWithPassword(ctx, strings.TrimSpace(email), password)

	f.mu.Lock()
	if f.closed || ctx.Err() != nil {
		// ビュー破棄後に到着した結果は反映しない
		f.mu.Unlock()
		return true
	}
	f.state = StateIdle

	if err != nil {
		f.setNoticeLocked(err.Error())
		f.mu.Unlock()
		return true
	}

	_ = principal
	target := f.pending
	f.pending = ""
	f.mu.Unlock()

	if target == "" {
		target = route.DefaultPath
	}
	f.navigate(target)
	return true
}

// SubmitSignUp はサインアップを送信する。
// 成功してもナビゲーションは行わず、メール確認を促す通知を表示して
// idleに戻る（アカウントはまだ利用できない）。
func (f *Flow) SubmitSignUp(ctx context.Context, email, password string) bool {
	if !f.begin(email, password) {
		return false
	}

	err := f.auth.SignUp(ctx, strings.TrimSpace(email), password)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || ctx.Err() != nil {
		return true
	}
	f.state = StateIdle

	if err != nil {
		f.setNoticeLocked(err.Error())
		return true
	}

	f.setNoticeLocked(noticeSignUpSucceeded)
	return true
}

// begin はローカル検証と idle -> submitting 遷移を行う。
// 検証に失敗した送信はコラボレーターに到達せず、通知のみを表示する。
// submitting中はfalseを返す。
func (f *Flow) begin(email, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return false
	}

	if !ValidEmail(email) {
		f.setNoticeLocked(noticeInvalidEmail)
		return false
	}
	if len(password) < MinPasswordLength {
		f.setNoticeLocked(noticePasswordShort)
		return false
	}

	f.state = StateSubmitting
	f.notice = ""
	return true
}

// setNoticeLocked は通知を設定し、自動消去タイマーを張り直す。
// 呼び出し側がロックを保持していること。
func (f *Flow) setNoticeLocked(msg string) {
	f.notice = msg
	if f.noticeTimer != nil {
		f.noticeTimer.Stop()
	}
	if f.noticeTTL <= 0 {
		return
	}
	f.noticeTimer = time.AfterFunc(f.noticeTTL, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.notice == msg {
			f.notice = ""
		}
	})
}
