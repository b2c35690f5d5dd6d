package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cervezafortuna/cicerone/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Manager manages all tasting sessions behind a single lock.
type Manager struct {
	sessions map[string]*TastingSession
	mu       sync.RWMutex
	store    *Store
	redis    *redis.Client
	config   *config.Config
}

// NewManager creates a session manager with file persistence and an
// optional Redis connection.
func NewManager(cfg *config.Config) (*Manager, error) {
	store, err := NewStore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	// Try to connect to Redis, but don't fail if unavailable
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Redis unavailable, continue without it
		redisClient = nil
	}

	return &Manager{
		sessions: make(map[string]*TastingSession),
		store:    store,
		redis:    redisClient,
		config:   cfg,
	}, nil
}

// NewSessionID generates a fresh session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// Get retrieves a session by ID. Expired sessions are swept before the
// lookup; a memory miss falls back to the session file on disk.
func (sm *Manager) Get(ctx context.Context, sessionID string) (*TastingSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.cleanupLocked(ctx)

	if sess, ok := sm.sessions[sessionID]; ok {
		return sess, true
	}

	// Revive from disk if a persisted copy exists and hasn't expired.
	sess, err := sm.store.Load(sessionID)
	if err != nil {
		return nil, false
	}
	if time.Since(sess.LastActivity) > sm.config.SessionTimeout {
		_ = sm.store.Delete(sessionID)
		return nil, false
	}
	sm.sessions[sessionID] = sess
	return sess, true
}

// GetOrCreate returns the existing session or creates a new one,
// honoring the MaxSessions cap.
func (sm *Manager) GetOrCreate(ctx context.Context, sessionID, userID string) (*TastingSession, error) {
	if sess, ok := sm.Get(ctx, sessionID); ok {
		return sess, nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sess, ok := sm.sessions[sessionID]; ok {
		return sess, nil
	}
	if len(sm.sessions) >= sm.config.MaxSessions {
		return nil, fmt.Errorf("maximum sessions reached")
	}

	sess := NewTastingSession(sessionID, userID)
	sm.sessions[sessionID] = sess
	sm.mirrorSession(ctx, sess)
	log.Printf("✅ New tasting session created: %s", sessionID)
	return sess, nil
}

// Save persists a session to disk and refreshes the Redis mirror.
func (sm *Manager) Save(ctx context.Context, sess *TastingSession) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sess.Touch()
	if err := sm.store.Save(sess); err != nil {
		return err
	}
	sm.mirrorSession(ctx, sess)
	return nil
}

// mirrorSession writes session metadata to Redis when available.
// Callers must hold the lock.
func (sm *Manager) mirrorSession(ctx context.Context, sess *TastingSession) {
	if sm.redis == nil {
		return
	}
	sm.redis.HSet(ctx, "session:"+sess.ID, map[string]interface{}{
		"started_at":    sess.StartedAt.Format(time.RFC3339),
		"last_activity": sess.LastActivity.Format(time.RFC3339),
		"beers_tasted":  len(sess.BeersTasted),
		"status":        "active",
	})
	sm.redis.SAdd(ctx, "active_sessions", sess.ID)
	sm.redis.Expire(ctx, "session:"+sess.ID, sm.config.SessionTimeout)
}

// Remove deletes a session from memory, disk, and Redis.
func (sm *Manager) Remove(ctx context.Context, sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, sessionID)
	if err := sm.store.Delete(sessionID); err != nil {
		return err
	}
	if sm.redis != nil {
		sm.redis.Del(ctx, "session:"+sessionID)
		sm.redis.SRem(ctx, "active_sessions", sessionID)
	}
	return nil
}

// Count returns the current number of in-memory sessions.
func (sm *Manager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupExpired removes sessions idle longer than the timeout.
func (sm *Manager) CleanupExpired(ctx context.Context) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.cleanupLocked(ctx)
}

func (sm *Manager) cleanupLocked(ctx context.Context) int {
	now := time.Now()
	removed := 0
	for id, sess := range sm.sessions {
		if now.Sub(sess.LastActivity) > sm.config.SessionTimeout {
			delete(sm.sessions, id)
			_ = sm.store.Delete(id)
			if sm.redis != nil {
				sm.redis.Del(ctx, "session:"+id)
				sm.redis.SRem(ctx, "active_sessions", id)
			}
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine starts periodic cleanup of expired sessions.
func (sm *Manager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sm.CleanupExpired(ctx); n > 0 {
				log.Printf("🧹 Cleaned up %d expired session(s)", n)
			}
		}
	}
}

// Shutdown persists all live sessions and closes the Redis connection.
func (sm *Manager) Shutdown() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id, sess := range sm.sessions {
		if err := sm.store.Save(sess); err != nil {
			log.Printf("⚠️ Failed to persist session %s on shutdown: %v", id, err)
		}
		delete(sm.sessions, id)
	}

	if sm.redis != nil {
		sm.redis.Close()
	}
}

// StorePreference saves a key/value preference and persists the session.
// The session is created on the fly if the tool call races creation.
func (sm *Manager) StorePreference(ctx context.Context, sessionID, key string, value any) error {
	sess, err := sm.GetOrCreate(ctx, sessionID, "")
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sess.Preferences == nil {
		sess.Preferences = make(map[string]any)
	}
	sess.Preferences[key] = value
	sess.Touch()
	return sm.store.Save(sess)
}

// Preferences returns a copy of the stored preferences for a session.
func (sm *Manager) Preferences(ctx context.Context, sessionID string) (map[string]any, error) {
	sess, ok := sm.Get(ctx, sessionID)
	if !ok {
		return map[string]any{}, nil
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	prefs := make(map[string]any, len(sess.Preferences))
	for k, v := range sess.Preferences {
		prefs[k] = v
	}
	return prefs, nil
}

// StoreEvaluation records a beer evaluation and persists the session.
func (sm *Manager) StoreEvaluation(ctx context.Context, sessionID string, eval *BeerEvaluation) (int, error) {
	sess, err := sm.GetOrCreate(ctx, sessionID, "")
	if err != nil {
		return 0, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if eval.Timestamp.IsZero() {
		eval.Timestamp = time.Now()
	}
	if err := sess.AddEvaluation(eval); err != nil {
		return 0, err
	}
	sess.Touch()
	if err := sm.store.Save(sess); err != nil {
		return 0, err
	}
	return len(sess.Evaluations), nil
}

// Evaluations returns the recorded evaluations for a session.
func (sm *Manager) Evaluations(ctx context.Context, sessionID string) ([]*BeerEvaluation, error) {
	sess, ok := sm.Get(ctx, sessionID)
	if !ok {
		return nil, nil
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	evals := make([]*BeerEvaluation, 0, len(sess.Evaluations))
	for _, id := range sess.BeersTasted {
		if e, ok := sess.Evaluations[id]; ok {
			evals = append(evals, e)
		}
	}
	return evals, nil
}
