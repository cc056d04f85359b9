package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	inboxLimit        = 20
	conversationLimit = 30
)

type MessageService struct {
	messageRepo MessageStore
	userRepo    UserStore
	logger      *zap.Logger
}

func NewMessageService(messageRepo MessageStore, userRepo UserStore, logger *zap.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Send отправляет личное сообщение
func (s *MessageService) Send(ctx context.Context, fromID, toID uuid.UUID, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if err := checkLength("text", text, 1, ChatMessageMaxLength); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, fmt.Errorf("%w: cannot message yourself", model.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByID(ctx, toID); err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}

	msg := &model.Message{
		FromUserID: fromID,
		ToUserID:   toID,
		Text:       text,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.logger.Info("Message sent",
		zap.String("message_id", msg.ID.String()),
		zap.String("from", fromID.String()),
		zap.String("to", toID.String()),
	)

	return msg, nil
}

// Inbox получает последние входящие с заполненным отправителем
func (s *MessageService) Inbox(ctx context.Context, userID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.messageRepo.ListInbox(ctx, userID, inboxLimit)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}

	if err := s.attachSenders(ctx, messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// Conversation получает переписку двух пользователей по времени
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.messageRepo.ListConversation(ctx, userID, otherID, conversationLimit)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	if err := s.attachSenders(ctx, messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// GetMessage получает сообщение, видимое только участникам переписки
func (s *MessageService) GetMessage(ctx context.Context, messageID, viewerID uuid.UUID) (*model.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg.FromUserID != viewerID && msg.ToUserID != viewerID {
		return nil, fmt.Errorf("%w: not a party of the message", model.ErrForbidden)
	}

	if err := s.attachSenders(ctx, []*model.Message{msg}); err != nil {
		return nil, err
	}

	return msg, nil
}

// MarkRead отмечает сообщение прочитанным. Только получатель
func (s *MessageService) MarkRead(ctx context.Context, messageID, recipientID uuid.UUID) error {
	if err := s.messageRepo.MarkRead(ctx, messageID, recipientID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *MessageService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (s *MessageService) attachSenders(ctx context.Context, messages []*model.Message) error {
	if len(messages) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.FromUserID]; !ok {
			seen[m.FromUserID] = struct{}{}
			ids = append(ids, m.FromUserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get senders: %w", err)
	}

	byID := make(map[uuid.UUID]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, m := range messages {
		m.From = byID[m.FromUserID]
	}

	return nil
}
