package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	"github.com/minhtran-dev/taskdesk/internal/dto"
	apierrors "github.com/minhtran-dev/taskdesk/internal/errors"
	"github.com/minhtran-dev/taskdesk/internal/middleware"
	"github.com/minhtran-dev/taskdesk/internal/services"
)

// CommentHandler coordinates thread-comment HTTP handlers.
type CommentHandler struct {
	threadService *services.ThreadService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(threadService *services.ThreadService) *CommentHandler {
	return &CommentHandler{
		threadService: threadService,
	}
}

// ListComments returns a task's comments, newest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	comments, err := h.threadService.ListComments(c.Request.Context(), taskID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}

// CreateComment posts a comment, optionally with a file attachment, as
// multipart form data with fields "content" and "attachment".
//
// The idle check happens here rather than in middleware so the typed draft
// can be echoed back instead of discarded.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	content := c.PostForm("content")
	file, fileErr := c.FormFile("attachment")

	if middleware.IsIdleExpired(c) {
		details := gin.H{"content": content}
		if fileErr == nil {
			details["attachment_name"] = file.Filename
		}
		apierrors.SessionIdle(c, details)
		return
	}

	input := services.AddCommentInput{
		TaskID:   taskID,
		AuthorID: userID,
		Content:  content,
	}

	if fileErr == nil {
		if file.Size > constants.MaxAttachmentSize {
			apierrors.Validation(c, "Attachment exceeds the maximum allowed size")
			return
		}

		src, err := file.Open()
		if err != nil {
			apierrors.BadRequest(c, "Failed to read attachment")
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			apierrors.BadRequest(c, "Failed to read attachment")
			return
		}

		input.AttachmentName = file.Filename
		input.AttachmentData = data
		input.ContentType = file.Header.Get("Content-Type")
	}

	comment, err := h.threadService.AddComment(c.Request.Context(), input)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentEmpty),
		errors.Is(err, services.ErrAttachmentTooLarge):
		apierrors.Validation(c, err.Error())
	case errors.Is(err, services.ErrAttachmentUpload):
		apierrors.Backend(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
