package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"go.uber.org/zap"
)

// handleCreateGymName обрабатывает ввод названия нового зала
func (h *Handlers) handleCreateGymName(d dialog) {
	name := strings.TrimSpace(d.update.Message.Text)
	if !lengthOK(name, service.GymNameMinLength, service.GymNameMaxLength) {
		h.sendError(d.ctx, d.b, d.chatID, fmt.Sprintf(
			"❌ Название должно быть от %d до %d символов.\n\nПопробуйте ещё раз:",
			service.GymNameMinLength, service.GymNameMaxLength))
		return
	}

	h.stateManager.SetData(d.telegramID(), state.KeyName, name)
	h.stateManager.SetState(d.telegramID(), state.StateCreateGymAddress)

	h.sendMessage(d.ctx, d.b, d.chatID, common.PromptGymAddress)
}

// handleCreateGymAddress обрабатывает ввод адреса (необязательный шаг)
func (h *Handlers) handleCreateGymAddress(d dialog) {
	address := strings.TrimSpace(inputText(d.update))
	if !lengthOK(address, 0, service.GymContactMaxLength) {
		h.sendError(d.ctx, d.b, d.chatID, fmt.Sprintf(
			"❌ Адрес слишком длинный. Максимум %d символов.\n\nПопробуйте ещё раз:", service.GymContactMaxLength))
		return
	}

	h.stateManager.SetData(d.telegramID(), state.KeyAddress, address)
	h.stateManager.SetState(d.telegramID(), state.StateCreateGymPhone)

	h.sendMessage(d.ctx, d.b, d.chatID, common.PromptGymPhone)
}

// handleCreateGymPhone последний шаг: создаёт зал
func (h *Handlers) handleCreateGymPhone(d dialog) {
	name, _ := h.stateManager.GetString(d.telegramID(), state.KeyName)
	address, _ := h.stateManager.GetString(d.telegramID(), state.KeyAddress)

	gym, err := h.deps.GymService.CreateGym(d.ctx, d.user.ID, service.GymParams{
		Name:    name,
		Address: address,
		Phone:   inputText(d.update),
	})
	if errors.Is(err, model.ErrInvalidInput) {
		h.sendError(d.ctx, d.b, d.chatID, "❌ Телефон слишком длинный.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "create gym")
		return
	}

	h.logger.Info("Gym created via bot",
		zap.String("gym_id", gym.ID.String()),
		zap.Int64("telegram_id", d.telegramID()))

	text, kb := common.BuildGymScreen(common.GymScreenData{Gym: gym, Viewer: d.user, Admin: d.user, CanManage: true})
	h.sendScreen(d.ctx, d.b, d.chatID, "✅ Зал создан!\n\n"+text, kb)
}

// handleEditGymField меняет одно поле зала, остальные остаются прежними
func (h *Handlers) handleEditGymField(d dialog, field state.UserState) {
	gymID, ok := h.stateManager.GetUUID(d.telegramID(), state.KeyGymID)
	if !ok {
		h.stateManager.ClearState(d.telegramID())
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сессия устарела. Начните заново.")
		return
	}

	gym, err := h.deps.GymService.GetGym(d.ctx, gymID)
	if err != nil {
		h.stateManager.ClearState(d.telegramID())
		h.replyError(d.ctx, d.b, d.chatID, err, "get gym")
		return
	}

	params := service.GymParams{Name: gym.Name, Address: gym.Address, Phone: gym.Phone}
	switch field {
	case state.StateEditGymName:
		params.Name = d.update.Message.Text
	case state.StateEditGymAddress:
		params.Address = inputText(d.update)
	case state.StateEditGymPhone:
		params.Phone = inputText(d.update)
	}

	updated, err := h.deps.GymService.UpdateGym(d.ctx, gym.ID, d.user.ID, params)
	if errors.Is(err, model.ErrInvalidInput) {
		h.sendError(d.ctx, d.b, d.chatID, "❌ Некорректное значение.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "update gym")
		return
	}

	text, kb := common.BuildGymEditScreen(updated)
	h.sendScreen(d.ctx, d.b, d.chatID, "✅ Сохранено\n\n"+text, kb)
}
