package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chathub/internal/service"
)

// ChatMessageHandler handles message endpoints nested under a chat.
type ChatMessageHandler struct {
	msgService service.ChatMessageService
}

// NewChatMessageHandler creates a new chat message handler.
func NewChatMessageHandler(msgService service.ChatMessageService) *ChatMessageHandler {
	return &ChatMessageHandler{msgService: msgService}
}

// MessageRequest carries the message text for create and update.
type MessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// List returns a chat's messages, newest first.
func (h *ChatMessageHandler) List(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	skip, limit := paging(c)

	msgs, err := h.msgService.List(c.Request().Context(), chatID, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// Get returns one message.
func (h *ChatMessageHandler) Get(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	messageID, err := pathID(c, "message_id")
	if err != nil {
		return err
	}

	msg, err := h.msgService.Get(c.Request().Context(), chatID, messageID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// Create posts a message; the caller must be a chat member.
func (h *ChatMessageHandler) Create(c echo.Context) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return err
	}
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.msgService.Create(c.Request().Context(), senderID, chatID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Update edits a message; sender only.
func (h *ChatMessageHandler) Update(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	messageID, err := pathID(c, "message_id")
	if err != nil {
		return err
	}

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.msgService.Update(c.Request().Context(), actorID, chatID, messageID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// Delete removes a message; sender only.
func (h *ChatMessageHandler) Delete(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	messageID, err := pathID(c, "message_id")
	if err != nil {
		return err
	}

	if err := h.msgService.Delete(c.Request().Context(), actorID, chatID, messageID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "message deleted successfully", Success: true})
}
