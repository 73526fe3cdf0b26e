// Package session はナビゲーションコントローラのセッションストアを提供する。
//
// ストアは認証コラボレーターからの通知を唯一の更新経路とする共有状態で、
// 他のコンポーネントは読み取り参照とリスナー登録のみを行う。
// グローバル変数ではなく、起動時に明示的に構築して参照渡しする。
package session

import (
	"sync"

	"github.com/hitoshi/careernest/internal/model"
)

// Token はSubscribeで登録したリスナーの解除用トークン。
type Token int

// Store はセッション状態の保持と変更通知を行う。
//
// 生成直後は {identity=absent, loading=true}。初回の認証通知でloadingが
// 解除され、以降の通知のたびに値を置き換えてリスナーへ通知する。
// リスナーは変更を起こした呼び出しと同じゴルーチン上で、登録順に
// 同期実行される。
type Store struct {
	mu        sync.Mutex
	current   model.ClientSession
	nextToken Token
	order     []Token
	listeners map[Token]func(model.ClientSession)
}

// NewStore はロード中状態のStoreを生成する。
func NewStore() *Store {
	return &Store{
		current:   model.ClientSession{Identity: nil, Loading: true},
		listeners: map[Token]func(model.ClientSession){},
	}
}

// CurrentSession は現在のセッション状態を返す。
func (s *Store) CurrentSession() model.ClientSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe は変更リスナーを登録し、解除用トークンを返す。
func (s *Store) Subscribe(fn func(model.ClientSession)) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.nextToken
	s.nextToken++
	s.order = append(s.order, token)
	s.listeners[token] = fn
	return token
}

// Unsubscribe は登録済みリスナーを解除する。
// 未登録トークンの解除は何もしない。
func (s *Store) Unsubscribe(token Token) {
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

// Set は認証通知を反映する。identityがnilの場合は未認証状態になる。
// loadingは常に解除される（初回通知の解決と以降の更新を兼ねる）。
func (s *Store) Set(identity *model.Principal) {
	s.replace(model.ClientSession{Identity: identity, Loading: false})
}

// Fail はコラボレーターのエラーを未認証・ロード完了として反映する。
// ストア自身はエラーを伝播しない。
func (s *Store) Fail() {
	s.replace(model.ClientSession{Identity: nil, Loading: false})
}

func (s *Store) replace(next model.ClientSession) {
	s.mu.Lock()
	s.current = next
	fns := make([]func(model.ClientSession), 0, len(s.order))
	for _, t := range s.order {
		if fn, ok := s.listeners[t]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
