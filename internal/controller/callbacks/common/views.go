package common

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
)

// LoadMainMenu считает заявки и непрочитанные сообщения для главного меню.
// Счётчики пересчитываются при каждом показе
func LoadMainMenu(ctx context.Context, h *callbacktypes.Handler, user *model.User) (MainMenuData, error) {
	pending, err := h.RequestService.CountPending(ctx, user.ID)
	if err != nil {
		return MainMenuData{}, fmt.Errorf("count pending: %w", err)
	}

	// Заявки в зал адресованы залу, а не администратору
	if user.IsAdmin() {
		gyms, err := h.GymService.ListAdminGyms(ctx, user.ID)
		if err != nil {
			return MainMenuData{}, fmt.Errorf("list admin gyms: %w", err)
		}
		for _, gym := range gyms {
			n, err := h.RequestService.CountGymPending(ctx, gym.ID)
			if err != nil {
				return MainMenuData{}, fmt.Errorf("count gym pending: %w", err)
			}
			pending += n
		}
	}

	unread, err := h.MessageService.CountUnread(ctx, user.ID)
	if err != nil {
		return MainMenuData{}, fmt.Errorf("count unread: %w", err)
	}

	return MainMenuData{User: user, PendingRequests: pending, UnreadMessages: unread}, nil
}

// CollectRequests возвращает заявки пользователя, а для администратора ещё и
// заявки его залов. Порядок: новые сверху
func CollectRequests(ctx context.Context, h *callbacktypes.Handler, user *model.User, status *model.RequestStatus) ([]*model.GymRequest, error) {
	requests, err := h.RequestService.GetUserRequests(ctx, user.ID, status)
	if err != nil {
		return nil, fmt.Errorf("get user requests: %w", err)
	}
	if !user.IsAdmin() {
		return requests, nil
	}

	gyms, err := h.GymService.ListAdminGyms(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list admin gyms: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(requests))
	for _, req := range requests {
		seen[req.ID] = true
	}
	for _, gym := range gyms {
		gymRequests, err := h.RequestService.GetGymRequests(ctx, gym.ID, status)
		if err != nil {
			return nil, fmt.Errorf("get gym requests: %w", err)
		}
		for _, req := range gymRequests {
			if !seen[req.ID] {
				seen[req.ID] = true
				requests = append(requests, req)
			}
		}
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// LoadRequestViews подгружает зал и участников для каждой заявки.
// Удалённые записи остаются nil
func LoadRequestViews(ctx context.Context, h *callbacktypes.Handler, requests []*model.GymRequest) ([]RequestView, error) {
	gyms := make(map[uuid.UUID]*model.Gym)
	users := make(map[uuid.UUID]*model.User)

	getGym := func(id uuid.UUID) (*model.Gym, error) {
		if gym, ok := gyms[id]; ok {
			return gym, nil
		}
		gym, err := h.GymService.GetGym(ctx, id)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		gyms[id] = gym
		return gym, nil
	}
	getUser := func(id uuid.UUID) (*model.User, error) {
		if user, ok := users[id]; ok {
			return user, nil
		}
		user, err := h.UserService.GetByID(ctx, id)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		users[id] = user
		return user, nil
	}

	views := make([]RequestView, 0, len(requests))
	for _, req := range requests {
		view := RequestView{Request: req}

		var err error
		if view.Gym, err = getGym(req.GymID()); err != nil {
			return nil, fmt.Errorf("load gym: %w", err)
		}
		if view.Person, err = getUser(req.PersonID()); err != nil {
			return nil, fmt.Errorf("load person: %w", err)
		}
		if req.ProfessorID != nil {
			if view.Professor, err = getUser(*req.ProfessorID); err != nil {
				return nil, fmt.Errorf("load professor: %w", err)
			}
		}

		views = append(views, view)
	}

	return views, nil
}
