package store

import (
	"strings"
	"time"

	"omnichat/backend/internal/models"
)

// MessageStore keeps every delivered message so later edits, deletes
// and reactions can resolve their targets. It is not a history replay
// buffer: joining a room never replays stored messages.
type MessageStore struct {
	messages map[string]*models.Message

	// reactions: message id -> emoji -> reacting usernames, with a
	// separate emoji insertion order so aggregates are stable.
	reactions  map[string]map[string][]string
	emojiOrder map[string][]string
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages:   make(map[string]*models.Message),
		reactions:  make(map[string]map[string][]string),
		emojiOrder: make(map[string][]string),
	}
}

// Put stores a freshly posted message. A message with neither trimmed
// content nor a file is rejected.
func (s *MessageStore) Put(msg *models.Message) error {
	if strings.TrimSpace(msg.Content) == "" && msg.File == nil {
		return ErrEmptyMessage
	}
	s.messages[msg.ID] = msg
	return nil
}

func (s *MessageStore) Get(id string) (*models.Message, bool) {
	msg, ok := s.messages[id]
	return msg, ok
}

// Edit mutates the content of the author's own message. System
// messages and file messages are never editable, even for the author.
func (s *MessageStore) Edit(id, authorID, newContent string) (*models.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	if msg.Kind == models.KindSystem || msg.File != nil {
		return nil, ErrNotEditable
	}
	if msg.UserID != authorID && msg.FromID != authorID {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(newContent) == "" {
		return nil, ErrEmptyMessage
	}
	now := time.Now()
	msg.Content = newContent
	msg.Edited = true
	msg.EditedAt = &now
	return msg, nil
}

// Delete removes the author's own message along with its reactions.
func (s *MessageStore) Delete(id, authorID string) (*models.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	if msg.UserID != authorID && msg.FromID != authorID {
		return nil, ErrForbidden
	}
	delete(s.messages, id)
	delete(s.reactions, id)
	delete(s.emojiOrder, id)
	return msg, nil
}

// AddReaction records one reaction, replacing any previous emoji by the
// same user on the same message, and returns the new aggregate.
func (s *MessageStore) AddReaction(messageID, username, emoji string) ([]models.ReactionGroup, error) {
	if _, ok := s.messages[messageID]; !ok {
		return nil, ErrMessageNotFound
	}
	byEmoji := s.reactions[messageID]
	if byEmoji == nil {
		byEmoji = make(map[string][]string)
		s.reactions[messageID] = byEmoji
	}

	s.removeUserReaction(messageID, username)

	if _, ok := byEmoji[emoji]; !ok {
		s.emojiOrder[messageID] = append(s.emojiOrder[messageID], emoji)
	}
	byEmoji[emoji] = append(byEmoji[emoji], username)
	return s.Aggregate(messageID), nil
}

// RemoveReaction removes the user's reaction under the given emoji.
// Removing a reaction that is not there is a no-op, not an error.
func (s *MessageStore) RemoveReaction(messageID, username, emoji string) ([]models.ReactionGroup, error) {
	if _, ok := s.messages[messageID]; !ok {
		return nil, ErrMessageNotFound
	}
	byEmoji := s.reactions[messageID]
	users, ok := byEmoji[emoji]
	if ok {
		for i, u := range users {
			if u == username {
				byEmoji[emoji] = append(users[:i], users[i+1:]...)
				break
			}
		}
		if len(byEmoji[emoji]) == 0 {
			delete(byEmoji, emoji)
			s.dropEmojiOrder(messageID, emoji)
		}
	}
	if len(byEmoji) == 0 {
		delete(s.reactions, messageID)
		delete(s.emojiOrder, messageID)
	}
	return s.Aggregate(messageID), nil
}

// Aggregate builds the {emoji, users, count} list in emoji insertion
// order. Never nil, so the payload marshals as [] rather than null.
func (s *MessageStore) Aggregate(messageID string) []models.ReactionGroup {
	groups := []models.ReactionGroup{}
	byEmoji := s.reactions[messageID]
	for _, emoji := range s.emojiOrder[messageID] {
		users, ok := byEmoji[emoji]
		if !ok || len(users) == 0 {
			continue
		}
		copied := make([]string, len(users))
		copy(copied, users)
		groups = append(groups, models.ReactionGroup{Emoji: emoji, Users: copied, Count: len(copied)})
	}
	return groups
}

func (s *MessageStore) Count() int { return len(s.messages) }

// removeUserReaction drops the user's existing reaction on the message,
// whatever emoji it was under. One reaction per user per message.
func (s *MessageStore) removeUserReaction(messageID, username string) {
	byEmoji := s.reactions[messageID]
	for emoji, users := range byEmoji {
		for i, u := range users {
			if u == username {
				byEmoji[emoji] = append(users[:i], users[i+1:]...)
				if len(byEmoji[emoji]) == 0 {
					delete(byEmoji, emoji)
					s.dropEmojiOrder(messageID, emoji)
				}
				return
			}
		}
	}
}

func (s *MessageStore) dropEmojiOrder(messageID, emoji string) {
	order := s.emojiOrder[messageID]
	for i, e := range order {
		if e == emoji {
			s.emojiOrder[messageID] = append(order[:i], order[i+1:]...)
			return
		}
	}
}
