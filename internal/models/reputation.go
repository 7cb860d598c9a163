package models

import "time"

// Reputation feedback types.
const (
	ReputationPositive = "positive"
	ReputationNegative = "negative"
)

// ReputationEntry is one rater-to-target feedback record. It is stored under
// the target user, so only the rater's id appears here.
type ReputationEntry struct {
	UserID    string    `json:"userId"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReputationRecord holds all feedback for one target user.
type ReputationRecord struct {
	Positive []ReputationEntry `json:"positive"`
	Negative []ReputationEntry `json:"negative"`
}

// ReputationFeedback is a feed entry in the aggregated view: the stored entry
// annotated with its type and the rater's username.
type ReputationFeedback struct {
	ReputationEntry
	Type     string `json:"type"`
	Username string `json:"username"`
}

// ReputationSummary is the derived aggregate for a user. Total is positive
// minus negative; Feedbacks is newest-first.
type ReputationSummary struct {
	Positive  int                  `json:"positive"`
	Negative  int                  `json:"negative"`
	Total     int                  `json:"total"`
	Feedbacks []ReputationFeedback `json:"feedbacks"`
}
