package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chathub/internal/service"
)

// ChatHandler handles chat room and membership endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateChatRequest creates a room; the caller becomes its owner.
type CreateChatRequest struct {
	Name    *string `json:"name"`
	UserIDs []uint  `json:"user_ids"`
}

// UpdateChatRequest renames a room.
type UpdateChatRequest struct {
	Name *string `json:"name"`
}

// ChatUserRequest adds a member with an optional role.
type ChatUserRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=member admin owner"`
}

// ChatUserRoleRequest updates a member's role.
type ChatUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin owner"`
}

// List returns the caller's chats, most recently used first.
func (h *ChatHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	skip, limit := paging(c)

	chats, err := h.chatService.ListForUser(c.Request().Context(), userID, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, chats)
}

// Get returns a chat by ID.
func (h *ChatHandler) Get(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	chat, err := h.chatService.Get(c.Request().Context(), chatID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

// Create makes a new chat with the caller as owner.
func (h *ChatHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	chat, err := h.chatService.Create(c.Request().Context(), userID, req.Name, req.UserIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, chat)
}

// Update renames a chat.
func (h *ChatHandler) Update(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	chat, err := h.chatService.Rename(c.Request().Context(), chatID, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

// Delete removes a chat and its messages.
func (h *ChatHandler) Delete(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.chatService.Delete(c.Request().Context(), chatID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "chat deleted successfully", Success: true})
}

// AddUser adds a user to the chat.
func (h *ChatHandler) AddUser(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ChatUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chat, err := h.chatService.AddMember(c.Request().Context(), chatID, req.UserID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

// UpdateUserRole changes a member's role in the chat.
func (h *ChatHandler) UpdateUserRole(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	var req ChatUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chat, err := h.chatService.UpdateMemberRole(c.Request().Context(), chatID, userID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

// RemoveUser removes a member from the chat.
func (h *ChatHandler) RemoveUser(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	chat, err := h.chatService.RemoveMember(c.Request().Context(), chatID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

// ListUsers returns the chat's members with their roles.
func (h *ChatHandler) ListUsers(c echo.Context) error {
	chatID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	members, err := h.chatService.ListMembers(c.Request().Context(), chatID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}
