package shop

import (
	"context"
	"sync"

	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/metrics"
)

// ServiceParams groups dependencies for the shop service.
type ServiceParams struct {
	Store   SnapshotStore
	Logger  *logger.Logger
	Metrics *metrics.ShopMetrics
}

// Service is the single writer for shopping state. Live state is held in
// memory per session (the lifetime of the process plays the role the page
// lifetime played in the browser); the snapshot store is the durable layer
// that survives a restart.
type Service interface {
	Current(ctx context.Context, sessionID string) (State, error)
	Dispatch(ctx context.Context, sessionID string, action Action) (State, error)
}

type service struct {
	store   SnapshotStore
	logg    *logger.Logger
	metrics *metrics.ShopMetrics

	mu     sync.Mutex
	states map[string]State
	locks  map[string]*sync.Mutex
}

// NewService builds a shop service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	return &service{
		store:   params.Store,
		logg:    params.Logger,
		metrics: params.Metrics,
		states:  make(map[string]State),
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Current returns the live state for the session, hydrating from the
// snapshot store on first touch.
func (s *service) Current(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return s.loadLocked(ctx, sessionID), nil
}

// Dispatch applies one action and persists the data portion of the result.
// Requests for the same session serialize; the snapshot write is best-effort
// and its failure is logged, counted, and swallowed.
func (s *service) Dispatch(ctx context.Context, sessionID string, action Action) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if action == nil {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "action is required")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	current := s.loadLocked(ctx, sessionID)
	next := Apply(current, action)

	s.mu.Lock()
	s.states[sessionID] = next
	s.mu.Unlock()

	s.metrics.IncAction(action.Name())

	if action.persists() {
		s.persist(ctx, sessionID, next)
	}

	return next, nil
}

func (s *service) loadLocked(ctx context.Context, sessionID string) State {
	s.mu.Lock()
	state, ok := s.states[sessionID]
	s.mu.Unlock()
	if ok {
		return state
	}

	document := ""
	if doc, found, err := s.store.Load(ctx, sessionID); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "snapshot load failed, starting empty", err)
		}
	} else if found {
		document = doc
	}

	state = DecodeSnapshot(document)

	s.mu.Lock()
	s.states[sessionID] = state
	s.mu.Unlock()
	return state
}

func (s *service) persist(ctx context.Context, sessionID string, state State) {
	document, err := EncodeSnapshot(state)
	if err == nil {
		err = s.store.Save(ctx, sessionID, document)
	}
	if err != nil {
		s.metrics.IncSnapshotFailure()
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "snapshot write failed", err)
		}
	}
}

func (s *service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}
