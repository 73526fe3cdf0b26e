package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, resume, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidEmail        = "INVALID_EMAIL"
	ErrCodePasswordTooShort    = "PASSWORD_TOO_SHORT"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeEmailNotConfirmed   = "EMAIL_NOT_CONFIRMED"
	ErrCodeInvalidConfirmToken = "INVALID_CONFIRM_TOKEN"
	ErrCodeResumeNotFound      = "RESUME_NOT_FOUND"
	ErrCodeInvalidResumeType   = "INVALID_RESUME_TYPE"
	ErrCodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	ErrCodeInvalidFileURL      = "INVALID_FILE_URL"
)

// NewInvalidEmailError はメールアドレス形式エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "メールアドレスの形式が正しくありません。",
		Category: "validation",
		Action:   "正しい形式のメールアドレスを入力してください。",
	}
}

// NewPasswordTooShortError はパスワード長エラーを生成する。
func NewPasswordTooShortError(min int) *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooShort,
		Message:  fmt.Sprintf("パスワードが短すぎます（%d文字以上）。", min),
		Category: "validation",
		Action:   fmt.Sprintf("%d文字以上のパスワードを設定してください。", min),
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスで登録するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailNotConfirmedError はメール未確認エラーを生成する。
func NewEmailNotConfirmedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotConfirmed,
		Message:  "メールアドレスの確認が完了していません。",
		Category: "auth",
		Action:   "登録時に送信された確認メールのリンクを開いてください。",
	}
}

// NewInvalidConfirmTokenError は確認トークン無効エラーを生成する。
func NewInvalidConfirmTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidConfirmToken,
		Message:  "確認リンクが無効か、有効期限が切れています。",
		Category: "auth",
		Action:   "再度サインアップして新しい確認メールを受け取ってください。",
	}
}

// NewResumeNotFoundError はレジュメ未検出エラーを生成する。
func NewResumeNotFoundError(resumeID string) *APIError {
	return &APIError{
		Code:     ErrCodeResumeNotFound,
		Message:  fmt.Sprintf("指定されたレジュメが見つかりません: %s", resumeID),
		Category: "resume",
		Action:   "レジュメIDを確認してください。",
	}
}

// NewInvalidResumeTypeError はレジュメ種別エラーを生成する。
func NewInvalidResumeTypeError(t string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidResumeType,
		Message:  fmt.Sprintf("無効なレジュメ種別です: %s", t),
		Category: "validation",
		Action:   "種別には built または uploaded を指定してください。",
	}
}

// NewUnsupportedFileTypeError はファイル種別エラーを生成する。
func NewUnsupportedFileTypeError(mime string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedFileType,
		Message:  fmt.Sprintf("サポートされていないファイル形式です: %s", mime),
		Category: "resume",
		Action:   "PDF、HTML、またはテキスト形式のレジュメをアップロードしてください。",
	}
}

// NewInvalidFileURLError はファイルURLエラーを生成する。
func NewInvalidFileURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFileURL,
		Message:  fmt.Sprintf("無効なファイルURLです: %s", reason),
		Category: "validation",
		Action:   "公開されているhttps形式のURLを指定してください。",
	}
}
