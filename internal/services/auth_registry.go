package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"redcreativa/internal/logger"
)

type AuthContextFactory func(clientID string) *AuthContext

type registryEntry struct {
	ctx      *AuthContext
	lastSeen time.Time
}

// AuthContextRegistry keeps one AuthContext per client id and evicts the
// ones idle for longer than idleTTL.
type AuthContextRegistry struct {
	factory AuthContextFactory
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	contexts map[string]*registryEntry

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewAuthContextRegistry(factory AuthContextFactory, idleTTL time.Duration) *AuthContextRegistry {
	return &AuthContextRegistry{
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
		contexts: make(map[string]*registryEntry),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Get returns the client's context, creating it on first use.
func (r *AuthContextRegistry) Get(clientID string) *AuthContext {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.contexts[clientID]
	if !ok {
		e = &registryEntry{ctx: r.factory(clientID)}
		r.contexts[clientID] = e
	}
	e.lastSeen = r.now()
	return e.ctx
}

func (r *AuthContextRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contexts)
}

// Sweep evicts idle contexts and returns how many were removed.
func (r *AuthContextRegistry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []*AuthContext
	for id, e := range r.contexts {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e.ctx)
			delete(r.contexts, id)
		}
	}
	r.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	return len(evicted)
}

// Start runs Sweep every interval until Stop.
func (r *AuthContextRegistry) Start(interval time.Duration) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					logger.Debug("evicted idle auth contexts", zap.Int("count", n))
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop ends the janitor started by Start and closes every context.
func (r *AuthContextRegistry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})

	r.mu.Lock()
	all := r.contexts
	r.contexts = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range all {
		e.ctx.Close()
	}
}

// Wait blocks until the janitor goroutine has exited.
func (r *AuthContextRegistry) Wait() {
	<-r.done
}
