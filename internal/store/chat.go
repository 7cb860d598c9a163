package store

import (
	"context"
	"sort"

	"rigforge/internal/models"
)

// SendChatMessage appends a direct message and persists the chat collection.
// Messages start unread.
func (s *Store) SendChatMessage(ctx context.Context, fromUserID, toUserID, message string) (models.ChatMessage, error) {
	if message == "" {
		return models.ChatMessage{}, models.NewValidationError("Message is required")
	}
	if fromUserID == toUserID {
		return models.ChatMessage{}, models.NewValidationError("Cannot message yourself")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.ChatMessage{}, err
	}

	msg := models.ChatMessage{
		ID:         newID(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Message:    message,
		CreatedAt:  now(),
		Read:       false,
	}

	s.chatMessages = append(s.chatMessages, msg)
	if err := s.persist(ctx, PathChat, s.chatMessages); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// GetUserConversations scans all messages involving the user, groups them by
// partner, and keeps the most recent message plus an unread count per
// partner. Sorted by most recent message, descending.
func (s *Store) GetUserConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	byPartner := map[string]*models.Conversation{}
	for _, msg := range s.chatMessages {
		if msg.FromUserID != userID && msg.ToUserID != userID {
			continue
		}

		partnerID := msg.FromUserID
		if partnerID == userID {
			partnerID = msg.ToUserID
		}

		conv := byPartner[partnerID]
		if conv == nil {
			conv = &models.Conversation{
				UserID:      partnerID,
				Username:    s.usernameFor(partnerID),
				LastMessage: msg,
			}
			if idx := s.userIndex(partnerID); idx >= 0 {
				conv.ProfileImage = s.users[idx].ProfileImage
			}
			byPartner[partnerID] = conv
		} else if msg.CreatedAt.After(conv.LastMessage.CreatedAt) {
			conv.LastMessage = msg
		}

		if msg.ToUserID == userID && !msg.Read {
			conv.Unread++
		}
	}

	conversations := make([]models.Conversation, 0, len(byPartner))
	for _, conv := range byPartner {
		conversations = append(conversations, *conv)
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations, nil
}

// GetConversation returns all messages between two users in chronological
// order. Opening the conversation marks every message addressed to the
// caller as read and persists the chat collection once if anything changed.
// The read-with-side-effect is the documented contract, so repeated calls
// persist nothing further.
func (s *Store) GetConversation(ctx context.Context, userID, partnerID string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	updated := false
	messages := []models.ChatMessage{}
	for i := range s.chatMessages {
		msg := &s.chatMessages[i]
		between := (msg.FromUserID == userID && msg.ToUserID == partnerID) ||
			(msg.FromUserID == partnerID && msg.ToUserID == userID)
		if !between {
			continue
		}

		if msg.ToUserID == userID && !msg.Read {
			msg.Read = true
			updated = true
		}
		messages = append(messages, *msg)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	if updated {
		if err := s.persist(ctx, PathChat, s.chatMessages); err != nil {
			return nil, err
		}
	}
	return messages, nil
}
