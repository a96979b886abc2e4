package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/messages"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// archiveTTL keeps finished dialogues around for audit before Redis expires
// them.
const archiveTTL = 24 * time.Hour

// Manager owns all live configuration dialogues. Sessions are independent
// units of work; the manager's lock only guards the registry itself.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	redis    *redis.Client
	config   *config.Config
}

// NewManager creates a session manager with Redis connection
func NewManager(cfg *config.Config) (*Manager, error) {
	// Try to connect to Redis, but don't fail if unavailable
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Redis unavailable, continue without it
		redisClient = nil
	}

	return &Manager{
		sessions: make(map[string]*Session),
		redis:    redisClient,
		config:   cfg,
	}, nil
}

// Create registers a new dialogue session under a generated id.
func (sm *Manager) Create(ctx context.Context, mode string) (*Session, error) {
	return sm.create(ctx, uuid.New().String(), mode)
}

// GetOrCreate returns the session with the given id. An unknown non-empty id
// is adopted as the new session's key so that external callers (the voice
// platform sends its call id on every event) keep hitting the same session.
func (sm *Manager) GetOrCreate(ctx context.Context, id, mode string) (*Session, error) {
	if id == "" {
		return sm.Create(ctx, mode)
	}
	if s, ok := sm.Get(id); ok {
		return s, nil
	}
	return sm.create(ctx, id, mode)
}

// create registers a session keyed by id, returning the existing session if
// two callers race on the same id.
func (sm *Manager) create(ctx context.Context, id, mode string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[id]; ok {
		return s, nil
	}

	if len(sm.sessions) >= sm.config.MaxSessions {
		return nil, fmt.Errorf("maximum sessions reached")
	}

	if mode == "" {
		mode = messages.ModeChat
	}

	s := &Session{
		ID:           id,
		Mode:         mode,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}

	sm.sessions[s.ID] = s
	sm.mirrorSession(ctx, s)
	return s, nil
}

// Get retrieves a session by ID
func (sm *Manager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, exists := sm.sessions[id]
	return s, exists
}

// mirrorSession writes session metadata to Redis so operators can inspect
// active dialogues across instances.
func (sm *Manager) mirrorSession(ctx context.Context, s *Session) {
	if sm.redis == nil {
		return
	}
	sm.redis.HSet(ctx, "session:"+s.ID, map[string]interface{}{
		"created_at":    s.CreatedAt.Format(time.RFC3339),
		"last_activity": s.LastActivity.Format(time.RFC3339),
		"mode":          s.Mode,
		"step":          s.Step,
	})
	sm.redis.SAdd(ctx, "active_sessions", s.ID)
	sm.redis.Expire(ctx, "session:"+s.ID, sm.config.SessionTimeout)
}

// Archive persists a terminal session's profile to Redis and evicts it from
// the live registry. Archive failures are not fatal; the profile is
// reconstructible from the final turn response.
func (sm *Manager) Archive(ctx context.Context, s *Session) {
	sm.mu.Lock()
	delete(sm.sessions, s.ID)
	sm.mu.Unlock()

	if sm.redis == nil {
		return
	}

	s.Lock()
	payload, err := sonic.Marshal(s.Profile)
	s.Unlock()
	if err != nil {
		return
	}

	sm.redis.Set(ctx, "session:archive:"+s.ID, payload, archiveTTL)
	sm.redis.Del(ctx, "session:"+s.ID)
	sm.redis.SRem(ctx, "active_sessions", s.ID)
}

// Remove cleans up and removes a session
func (sm *Manager) Remove(ctx context.Context, id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[id]; !exists {
		return
	}
	delete(sm.sessions, id)

	if sm.redis != nil {
		sm.redis.Del(ctx, "session:"+id)
		sm.redis.SRem(ctx, "active_sessions", id)
	}
}

// ActiveCount returns current session count
func (sm *Manager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupInactiveSessions removes sessions that have been inactive
func (sm *Manager) CleanupInactiveSessions(ctx context.Context) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for id, s := range sm.sessions {
		s.Lock()
		idle := now.Sub(s.LastActivity)
		s.Unlock()

		if idle > sm.config.SessionTimeout {
			delete(sm.sessions, id)

			if sm.redis != nil {
				sm.redis.Del(ctx, "session:"+id)
				sm.redis.SRem(ctx, "active_sessions", id)
			}
		}
	}
}

// StartCleanupRoutine starts periodic cleanup of inactive sessions
func (sm *Manager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.CleanupInactiveSessions(ctx)
		}
	}
}

// Shutdown drops all sessions and closes the Redis connection.
func (sm *Manager) Shutdown() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id := range sm.sessions {
		delete(sm.sessions, id)
	}

	if sm.redis != nil {
		sm.redis.Close()
	}
}
