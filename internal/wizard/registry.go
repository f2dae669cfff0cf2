package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Registry живые сессии мастера
type Registry struct {
	deps Dependencies
	cfg  Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry создает реестр сессий
func NewRegistry(deps Dependencies, cfg Config) *Registry {
	if deps.TimeProvider == nil {
		deps.TimeProvider = &RealTimeProvider{}
	}
	return &Registry{
		deps:     deps,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Create открывает новую сессию; profile может быть nil
func (r *Registry) Create(profile *domain.UserProfile) *Session {
	session := NewSession(uuid.NewString(), r.deps, r.cfg, profile)

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()

	r.deps.Logger.Info("Wizard: session %s created, prefilled=%t", session.ID(), profile != nil)
	return session
}

// Get возвращает сессию по id
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Close закрывает и удаляет сессию
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
	}
	session.Close()
	r.deps.Logger.Info("Wizard: session %s closed", id)
	return nil
}

// MarkPersisted сообщает сессии id бронирования, сохраненного фоновым повтором
// Сессия могла уже истечь: тогда сохраненное бронирование просто не привязывается
func (r *Registry) MarkPersisted(sessionID string, bookingID int64) {
	session, err := r.Get(sessionID)
	if err != nil {
		r.deps.Logger.Info("Wizard: booking id=%d saved for expired session %s", bookingID, sessionID)
		return
	}
	session.MarkPersisted(bookingID)
}

// Len количество живых сессий
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Evict закрывает сессии, простаивающие дольше SessionTTL
func (r *Registry) Evict(now time.Time) int {
	r.mu.Lock()
	var expired []*Session
	for id, session := range r.sessions {
		if session.expired(now, r.cfg.SessionTTL) {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		r.deps.Logger.Info("Wizard: evicted %d idle sessions", len(expired))
	}
	return len(expired)
}

// Run периодически удаляет простаивающие сессии до отмены ctx
// При выходе закрывает все оставшиеся сессии
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return ctx.Err()
		case <-t.C:
			r.Evict(r.deps.TimeProvider.Now())
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
