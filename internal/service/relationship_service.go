package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GymNameState distinguishes "still loading" from "no gym" so screens never
// render an ambiguous blank.
type GymNameState int

const (
	GymNameLoading GymNameState = iota
	GymNameResolved
	GymNameNone
)

// lookupTimeout bounds a shared lookup, which runs detached from any single caller.
const lookupTimeout = 10 * time.Second

type GymName struct {
	State GymNameState
	Name  string
}

type gymLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Gym, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type cachedGym struct {
	name  string
	found bool
}

type cachedProfessor struct {
	user *model.User // nil - запись не найдена
}

// RelationshipService derives "current gym / current professor" for profile and
// messaging screens. Results are cached per entity id for the process lifetime and
// dropped by Invalidate on writes. Concurrent lookups of one id share a single
// store call.
type RelationshipService struct {
	gyms  gymLookup
	users userLookup

	mu         sync.RWMutex
	generation uint64
	gymNames   map[uuid.UUID]cachedGym
	professors map[uuid.UUID]cachedProfessor

	group  singleflight.Group
	logger *zap.Logger
}

func NewRelationshipService(gyms gymLookup, users userLookup, logger *zap.Logger) *RelationshipService {
	return &RelationshipService{
		gyms:       gyms,
		users:      users,
		gymNames:   make(map[uuid.UUID]cachedGym),
		professors: make(map[uuid.UUID]cachedProfessor),
		logger:     logger,
	}
}

// ResolveGymName returns the user's gym name or the GymNameNone sentinel when the
// user has no gym or the gym no longer exists.
func (s *RelationshipService) ResolveGymName(ctx context.Context, user *model.User) (GymName, error) {
	if user == nil || !user.HasGym() {
		return GymName{State: GymNameNone}, nil
	}
	gymID := *user.GymID

	if cached, ok := s.cachedGym(gymID); ok {
		return cached, nil
	}

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	v, err := s.share(ctx, "gym:"+gymID.String(), func(ctx context.Context) (interface{}, error) {
		gym, err := s.gyms.GetByID(ctx, gymID)
		entry := cachedGym{}
		switch {
		case err == nil:
			entry = cachedGym{name: gym.Name, found: true}
		case errors.Is(err, model.ErrNotFound):
			s.logger.Debug("Gym referenced by user not found", zap.String("gym_id", gymID.String()))
		default:
			return nil, err
		}

		s.mu.Lock()
		if s.generation == gen {
			s.gymNames[gymID] = entry
		}
		s.mu.Unlock()

		return entry, nil
	})
	if err != nil {
		return GymName{State: GymNameLoading}, fmt.Errorf("resolve gym name: %w", err)
	}

	return gymNameFrom(v.(cachedGym)), nil
}

// PeekGymName reads the cache without touching the store. GymNameLoading means the
// name has not been resolved yet.
func (s *RelationshipService) PeekGymName(user *model.User) GymName {
	if user == nil || !user.HasGym() {
		return GymName{State: GymNameNone}
	}
	if cached, ok := s.cachedGym(*user.GymID); ok {
		return cached
	}
	return GymName{State: GymNameLoading}
}

// ResolveProfessor returns the user's professor, or nil when unset or when the id
// points at a missing record.
func (s *RelationshipService) ResolveProfessor(ctx context.Context, user *model.User) (*model.User, error) {
	if user == nil || !user.HasProfessor() {
		return nil, nil
	}
	professorID := *user.ProfessorID

	s.mu.RLock()
	cached, ok := s.professors[professorID]
	gen := s.generation
	s.mu.RUnlock()
	if ok {
		return cached.user, nil
	}

	v, err := s.share(ctx, "professor:"+professorID.String(), func(ctx context.Context) (interface{}, error) {
		professor, err := s.users.GetByID(ctx, professorID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}

		entry := cachedProfessor{user: professor}
		if err != nil {
			entry.user = nil
		}

		s.mu.Lock()
		if s.generation == gen {
			s.professors[professorID] = entry
		}
		s.mu.Unlock()

		return entry, nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve professor: %w", err)
	}

	return v.(cachedProfessor).user, nil
}

// Invalidate drops cached projections for the given entity ids. Lookups already in
// flight when Invalidate runs do not write their results back.
func (s *RelationshipService) Invalidate(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	for _, id := range ids {
		delete(s.gymNames, id)
		delete(s.professors, id)
		s.group.Forget("gym:" + id.String())
		s.group.Forget("professor:" + id.String())
	}
}

// Reset drops the whole cache. Names edited outside the bot (or by a profile
// re-registration) only show up after a reset.
func (s *RelationshipService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	dropped := len(s.gymNames) + len(s.professors)
	s.gymNames = make(map[uuid.UUID]cachedGym)
	s.professors = make(map[uuid.UUID]cachedProfessor)
	s.logger.Debug("Relationship cache reset", zap.Int("dropped", dropped))
}

// share runs fn once per key for all concurrent callers. A caller that gives up
// gets its own ctx error, the others keep waiting for the result.
func (s *RelationshipService) share(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return fn(lookupCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *RelationshipService) cachedGym(gymID uuid.UUID) (GymName, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.gymNames[gymID]
	if !ok {
		return GymName{}, false
	}
	return gymNameFrom(entry), true
}

func gymNameFrom(entry cachedGym) GymName {
	if !entry.found {
		return GymName{State: GymNameNone}
	}
	return GymName{State: GymNameResolved, Name: entry.name}
}
