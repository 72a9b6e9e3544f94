package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuni/notify-service/internal/email"
)

// RelayAcceptedMessage is returned once a message is handed to the notifier
const RelayAcceptedMessage = "Email sent to background task"

// EmailHandler relays arbitrary messages to the notifier
type EmailHandler struct {
	notifier email.Notifier
	logger   *zap.Logger
}

// NewEmailHandler creates a new email relay handler
func NewEmailHandler(notifier email.Notifier, logger *zap.Logger) *EmailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailHandler{notifier: notifier, logger: logger}
}

// SendEmailRequest represents the relay request body.
// IsHTML defaults to true when omitted.
type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body"`
	IsHTML  *bool  `json:"is_html"`
}

// Message converts the request into a single-recipient message
func (r SendEmailRequest) Message() email.Message {
	contentType := email.ContentTypeHTML
	if r.IsHTML != nil && !*r.IsHTML {
		contentType = email.ContentTypePlain
	}
	return email.Message{
		To:          []string{r.To},
		Subject:     r.Subject,
		Body:        r.Body,
		ContentType: contentType,
	}
}

// Send hands the message to the notifier and returns immediately
// POST /email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	if err := h.notifier.Send(req.Message()); err != nil {
		switch {
		case errors.Is(err, email.ErrInvalidMessage):
			abortWithError(c, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, email.ErrDispatcherClosed):
			abortWithError(c, http.StatusServiceUnavailable, "service_unavailable", "Email dispatcher is shutting down")
		default:
			h.logger.Error("failed to queue relayed email", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "internal_error", "Failed to queue email")
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: RelayAcceptedMessage})
}
