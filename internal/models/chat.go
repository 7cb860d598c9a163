package models

import "time"

// ChatMessage is one direct message between two users.
type ChatMessage struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	Read       bool      `json:"read"`
}

// Conversation is the derived inbox entry for one chat partner: the most
// recent message plus the count of unread messages addressed to the viewer.
type Conversation struct {
	UserID       string      `json:"userId"`
	Username     string      `json:"username"`
	ProfileImage string      `json:"profileImage,omitempty"`
	LastMessage  ChatMessage `json:"lastMessage"`
	Unread       int         `json:"unread"`
}
