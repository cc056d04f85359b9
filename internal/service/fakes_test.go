package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
)

// In-memory stores. Each mirrors the repository contract: ErrNotFound on
// misses, conditional status flips guarded by one mutex.

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
	gets  atomic.Int32
	err   error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		f.put(u)
	}
	return f
}

func (f *fakeUsers) put(u *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	f.users[u.ID] = &cp
}

func (f *fakeUsers) get(id uuid.UUID) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.put(user)
	return nil
}

func (f *fakeUsers) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	f.gets.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if u := f.get(id); u != nil {
		return u, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u := f.get(id); u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[user.ID]
	if !ok {
		return model.ErrNotFound
	}
	u.Username = user.Username
	u.DisplayName = user.DisplayName
	u.Email = user.Email
	return nil
}

func (f *fakeUsers) UpdateRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) PromoteToProfessor(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.Role = model.RoleProfessor
	u.GymID = nil
	u.ProfessorID = nil
	return nil
}

func (f *fakeUsers) ListByGym(ctx context.Context, gymID uuid.UUID, role model.Role) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.User
	for _, u := range f.users {
		if u.HasGym() && *u.GymID == gymID && u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.User
	for _, u := range f.users {
		if u.HasProfessor() && *u.ProfessorID == professorID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeGyms struct {
	mu    sync.Mutex
	gyms  map[uuid.UUID]*model.Gym
	gets  atomic.Int32
	delay time.Duration
	err   error
}

func newFakeGyms(gyms ...*model.Gym) *fakeGyms {
	f := &fakeGyms{gyms: make(map[uuid.UUID]*model.Gym)}
	for _, g := range gyms {
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		cp := *g
		f.gyms[g.ID] = &cp
	}
	return f
}

func (f *fakeGyms) Create(ctx context.Context, gym *model.Gym) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	gym.ID = uuid.New()
	gym.CreatedAt = time.Now()
	cp := *gym
	f.gyms[gym.ID] = &cp
	return nil
}

func (f *fakeGyms) GetByID(ctx context.Context, id uuid.UUID) (*model.Gym, error) {
	f.gets.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gyms[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGyms) List(ctx context.Context) ([]*model.Gym, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Gym
	for _, g := range f.gyms {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeGyms) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Gym, error) {
	all, _ := f.List(ctx)
	var out []*model.Gym
	for _, g := range all {
		if g.AdminID == adminID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGyms) Update(ctx context.Context, gym *model.Gym) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.gyms[gym.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *gym
	f.gyms[gym.ID] = &cp
	return nil
}

func (f *fakeGyms) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.gyms[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.gyms, id)
	return nil
}

func (f *fakeGyms) rename(id uuid.UUID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gyms[id].Name = name
}

// fakeRequests binds users on accept, like the transactional repository does
type fakeRequests struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.GymRequest
	order    []uuid.UUID
	users    *fakeUsers
	err      error
}

func newFakeRequests(users *fakeUsers) *fakeRequests {
	return &fakeRequests{
		requests: make(map[uuid.UUID]*model.GymRequest),
		users:    users,
	}
}

func (f *fakeRequests) Create(ctx context.Context, req *model.GymRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, r := range f.requests {
		if r.IsPending() && r.FromID == req.FromID && r.ToID == req.ToID && r.RequestedRole == req.RequestedRole {
			return model.ErrDuplicatePending
		}
	}
	req.ID = uuid.New()
	req.Status = model.RequestStatusPending
	req.CreatedAt = time.Now()
	cp := *req
	f.requests[req.ID] = &cp
	f.order = append(f.order, req.ID)
	return nil
}

func (f *fakeRequests) GetByID(ctx context.Context, id uuid.UUID) (*model.GymRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequests) filter(match func(*model.GymRequest) bool, status *model.RequestStatus) []*model.GymRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.GymRequest
	for i := len(f.order) - 1; i >= 0; i-- {
		r := f.requests[f.order[i]]
		if !match(r) {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out
}

func (f *fakeRequests) GetUserRequests(ctx context.Context, userID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(r *model.GymRequest) bool { return r.Involves(userID) }, status), nil
}

func (f *fakeRequests) GetGymRequests(ctx context.Context, gymID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error) {
	return f.filter(func(r *model.GymRequest) bool { return r.GymID() == gymID }, status), nil
}

func (f *fakeRequests) HasPending(ctx context.Context, fromID, toID uuid.UUID, role model.Role) (bool, error) {
	pending := model.RequestStatusPending
	found := f.filter(func(r *model.GymRequest) bool {
		return r.FromID == fromID && r.ToID == toID && r.RequestedRole == role
	}, &pending)
	return len(found) > 0, nil
}

func (f *fakeRequests) Accept(ctx context.Context, id uuid.UUID) (*model.GymRequest, error) {
	req, err := f.transition(id, model.RequestStatusAccepted)
	if err != nil {
		return nil, err
	}

	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	person, ok := f.users.users[req.PersonID()]
	if !ok {
		return nil, model.ErrNotFound
	}
	gymID := req.GymID()
	if req.RequestedRole == model.RoleStudent {
		switch {
		case req.ProfessorID != nil:
			profID := *req.ProfessorID
			person.ProfessorID = &profID
		case !person.HasGym() || *person.GymID != gymID:
			person.ProfessorID = nil
		}
	}
	person.GymID = &gymID

	return req, nil
}

func (f *fakeRequests) Reject(ctx context.Context, id uuid.UUID) (*model.GymRequest, error) {
	return f.transition(id, model.RequestStatusRejected)
}

func (f *fakeRequests) transition(id uuid.UUID, next model.RequestStatus) (*model.GymRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.requests[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if !r.Status.CanTransition(next) {
		return nil, model.ErrInvalidState
	}
	now := time.Now()
	r.Status = next
	r.UpdatedAt = &now
	cp := *r
	return &cp, nil
}

// insert stores a request as is, bypassing service validation
func (f *fakeRequests) insert(req *model.GymRequest) *model.GymRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = model.RequestStatusPending
	}
	req.CreatedAt = time.Now()
	cp := *req
	f.requests[req.ID] = &cp
	f.order = append(f.order, req.ID)
	return req
}

type fakeInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(ids ...uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, ids...)
}

func (f *fakeInvalidator) invalidated() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.ids...)
}

type fakeProfiles struct {
	users     *fakeUsers
	refreshed []uuid.UUID
	last      *model.User
	err       error
}

func (f *fakeProfiles) RefreshUserData(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	f.refreshed = append(f.refreshed, userID)
	if f.err != nil {
		return nil, f.err
	}
	u, err := f.users.GetByID(ctx, userID)
	f.last = u
	return u, err
}

type fakeMessages struct {
	mu       sync.Mutex
	messages []*model.Message
}

func (f *fakeMessages) Create(ctx context.Context, msg *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	cp := *msg
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessages) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeMessages) ListInbox(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Message
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if f.messages[i].ToUserID == userID {
			cp := *f.messages[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMessages) ListConversation(ctx context.Context, userA, userB uuid.UUID, limit int) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Message
	for _, m := range f.messages {
		if (m.FromUserID == userA && m.ToUserID == userB) || (m.FromUserID == userB && m.ToUserID == userA) {
			cp := *m
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessages) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id && m.ToUserID == recipientID {
			m.IsRead = true
			return nil
		}
	}
	return model.ErrNotFound
}

func (f *fakeMessages) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages {
		if m.ToUserID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

type fakeRoutines struct {
	mu       sync.Mutex
	routines map[uuid.UUID]*model.Routine
}

func newFakeRoutines() *fakeRoutines {
	return &fakeRoutines{routines: make(map[uuid.UUID]*model.Routine)}
}

func (f *fakeRoutines) Create(ctx context.Context, routine *model.Routine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	routine.ID = uuid.New()
	routine.CreatedAt = time.Now()
	cp := *routine
	f.routines[routine.ID] = &cp
	return nil
}

func (f *fakeRoutines) GetByID(ctx context.Context, id uuid.UUID) (*model.Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routines[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoutines) list(match func(*model.Routine) bool) []*model.Routine {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Routine
	for _, r := range f.routines {
		if match(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeRoutines) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Routine, error) {
	return f.list(func(r *model.Routine) bool { return r.StudentID == studentID }), nil
}

func (f *fakeRoutines) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.Routine, error) {
	return f.list(func(r *model.Routine) bool { return r.ProfessorID == professorID }), nil
}

func (f *fakeRoutines) Update(ctx context.Context, routine *model.Routine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.routines[routine.ID]; !ok {
		return model.ErrNotFound
	}
	now := time.Now()
	routine.UpdatedAt = &now
	cp := *routine
	f.routines[routine.ID] = &cp
	return nil
}

func (f *fakeRoutines) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.routines[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.routines, id)
	return nil
}
