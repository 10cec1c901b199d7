package dto

import (
	"time"

	"github.com/minhtran-dev/taskdesk/internal/models"
)

// CommentDTO represents a thread comment in API responses
type CommentDTO struct {
	ID             uint64      `json:"id"`
	TaskID         uint64      `json:"task_id"`
	AuthorID       uint64      `json:"author_id"`
	Content        string      `json:"content"`
	AttachmentURL  *string     `json:"attachment_url,omitempty"`
	AttachmentName *string     `json:"attachment_name,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Author         *ProfileDTO `json:"author,omitempty"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:             comment.ID,
		TaskID:         comment.TaskID,
		AuthorID:       comment.AuthorID,
		Content:        comment.Content,
		AttachmentURL:  comment.AttachmentURL,
		AttachmentName: comment.AttachmentName,
		CreatedAt:      comment.CreatedAt,
	}

	// Include author if preloaded
	if comment.Author.ID != 0 {
		author := ToProfileDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}

// ToCommentDTOs converts a slice of Comment models
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = ToCommentDTO(c)
	}
	return out
}
