package telegram

import (
	"sync"
	"testing"

	"github.com/vadimtrunov/PickSomething/internal/session"
)

func testSessionFactory() *session.Session {
	return session.New(&stubSearcher{}, nil)
}

func TestSessionManager_IsAllowed(t *testing.T) {
	t.Run("empty whitelist allows all", func(t *testing.T) {
		sm := newSessionManager(nil)
		if !sm.isAllowed(123) {
			t.Error("expected all users allowed with nil whitelist")
		}
		if !sm.isAllowed(456) {
			t.Error("expected all users allowed with nil whitelist")
		}
	})

	t.Run("empty slice allows all", func(t *testing.T) {
		sm := newSessionManager([]int64{})
		if !sm.isAllowed(123) {
			t.Error("expected all users allowed with empty whitelist")
		}
	})

	t.Run("whitelist restricts", func(t *testing.T) {
		sm := newSessionManager([]int64{100, 200})
		if !sm.isAllowed(100) {
			t.Error("expected user 100 allowed")
		}
		if !sm.isAllowed(200) {
			t.Error("expected user 200 allowed")
		}
		if sm.isAllowed(300) {
			t.Error("expected user 300 denied")
		}
	})
}

func TestSessionManager_GetOrCreate(t *testing.T) {
	sm := newSessionManager(nil)

	s1 := sm.getOrCreate(100, testSessionFactory)
	if s1 == nil {
		t.Fatal("expected non-nil session")
	}

	s2 := sm.getOrCreate(100, testSessionFactory)
	if s1 != s2 {
		t.Error("expected same session for same chat")
	}

	s3 := sm.getOrCreate(200, testSessionFactory)
	if s3 == nil {
		t.Fatal("expected non-nil session for chat 200")
	}
	if s1 == s3 {
		t.Error("expected different sessions for different chats")
	}
}

func TestSessionManager_NilFactoryResultNotCached(t *testing.T) {
	sm := newSessionManager(nil)
	calls := 0
	factory := func() *session.Session {
		calls++
		return nil
	}
	sm.getOrCreate(1, factory)
	sm.getOrCreate(1, factory)
	if calls != 2 {
		t.Errorf("expected factory retried, got %d calls", calls)
	}
}

func TestSessionManager_Reset(t *testing.T) {
	sm := newSessionManager(nil)

	s1 := sm.getOrCreate(100, testSessionFactory)
	s1.SetKeyword("dune")
	sm.reset(100)
	s2 := sm.getOrCreate(100, testSessionFactory)

	if s1 == s2 {
		t.Error("expected new session after reset")
	}
	if s2.Snapshot().Keyword != "" {
		t.Error("expected fresh session to be idle")
	}
}

func TestSessionManager_Concurrent(t *testing.T) {
	sm := newSessionManager(nil)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chatID := int64(i % 10)
			if s := sm.getOrCreate(chatID, testSessionFactory); s == nil {
				t.Error("expected non-nil session")
			}
		}()
	}
	wg.Wait()
}
