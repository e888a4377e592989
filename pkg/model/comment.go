package model

import (
	"time"

	"github.com/google/uuid"
)

type CommentID string

// NewCommentID generates a time-ordered unique CommentID
func NewCommentID() CommentID {
	id, err := uuid.NewV7()
	if err != nil {
		return CommentID(uuid.New().String())
	}
	return CommentID(id.String())
}

// Comment is one reader comment on a profile. It is never edited or deleted.
type Comment struct {
	ID        CommentID `json:"id" yaml:"id"`
	Author    string    `json:"author" yaml:"author"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"timestamp" yaml:"timestamp"`
}
