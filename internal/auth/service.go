// Package auth はパスワード認証、メール確認、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/careernest/internal/model"
	"github.com/hitoshi/careernest/internal/repository"
)

// EventType はセッション変更イベントの種別を表す。
type EventType string

const (
	// EventSignedIn はサインインによるセッション発行を示す。
	EventSignedIn EventType = "signed_in"
	// EventSignedOut はサインアウトによるセッション破棄を示す。
	EventSignedOut EventType = "signed_out"
)

// Event はセッション変更の通知を表す。
// SignedOutの場合、Principalは破棄されたセッションの持ち主を指す。
type Event struct {
	Type      EventType
	SessionID string
	Principal model.Principal
}

// ListenerToken はOnSessionChangeで登録したリスナーの解除用トークン。
type ListenerToken int

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge     int // セッション有効期間（秒）
	MinPasswordLength int // パスワード最小長
}

// Service は認証に関するビジネスロジックを提供する。
// サインイン・サインアウトのたびに登録済みリスナーへ同期的に通知する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig

	mu        sync.Mutex
	nextToken ListenerToken
	order     []ListenerToken
	listeners map[ListenerToken]func(Event)
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	if config.MinPasswordLength <= 0 {
		config.MinPasswordLength = 5
	}
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
		listeners:   map[ListenerToken]func(Event){},
	}
}

// OnSessionChange はセッション変更リスナーを登録する。
// リスナーは変更を起こした呼び出しと同じゴルーチン上で、登録順に同期実行される。
func (s *Service) OnSessionChange(fn func(Event)) ListenerToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.nextToken
	s.nextToken++
	s.order = append(s.order, token)
	s.listeners[token] = fn
	return token
}

// RemoveSessionListener は登録済みリスナーを解除する。
func (s *Service) RemoveSessionListener(token ListenerToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.listeners, token)
	for i, t := range s.order {
		if t == token {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// notify は登録順にリスナーを同期呼び出しする。
func (s *Service) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.order))
	for _, t := range s.order {
		if fn, ok := s.listeners[t]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SignUp は未確認ユーザーを作成し、確認トークンを発行して返す。
// 作成されたアカウントはメール確認が完了するまでサインインできない。
func (s *Service) SignUp(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if len(password) < s.config.MinPasswordLength {
		return "", model.NewPasswordTooShortError(s.config.MinPasswordLength)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		return "", model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:                uuid.New().String(),
		Email:             email,
		PasswordHash:      string(hash),
		Confirmed:         false,
		ConfirmationToken: token,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)

	return token, nil
}

// ConfirmEmail は確認トークンを検証し、ユーザーをメール確認済みにする。
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	if token == "" {
		return model.NewInvalidConfirmTokenError()
	}

	user, err := s.userRepo.FindByConfirmationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to find user by confirmation token: %w", err)
	}
	if user == nil {
		return model.NewInvalidConfirmTokenError()
	}

	if err := s.userRepo.MarkConfirmed(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}

	slog.Info("email confirmed", slog.String("user_id", user.ID))
	return nil
}

// SignInWithPassword はメールアドレスとパスワードを検証し、セッションを発行する。
// 未確認アカウントはサインインできない。成功時はサインインイベントを通知する。
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, *model.Principal, error) {
	email = strings.TrimSpace(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if !user.Confirmed {
		return nil, nil, model.NewEmailNotConfirmedError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	principal := model.Principal{ID: user.ID, Email: user.Email}

	slog.Info("user signed in",
		slog.String("user_id", user.ID),
	)

	s.notify(Event{Type: EventSignedIn, SessionID: session.ID, Principal: principal})

	return session, &principal, nil
}

// Logout はセッションを破棄し、サインアウトイベントを通知する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	principal, err := s.ResolveSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))

	ev := Event{Type: EventSignedOut, SessionID: sessionID}
	if principal != nil {
		ev.Principal = *principal
	}
	s.notify(ev)

	return nil
}

// ResolveSession はセッションIDから認証済みユーザーを特定する。
// セッションが存在しない・期限切れの場合はnilを返す。
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*model.Principal, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	return &model.Principal{ID: user.ID, Email: user.Email}, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateToken は暗号的に安全なランダムトークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
