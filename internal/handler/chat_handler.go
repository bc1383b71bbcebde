package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"chatguard/internal/domain/message"
	"chatguard/internal/domain/user"
	"chatguard/internal/services"
	"chatguard/internal/transport/httpdto"
	chatguard_errors "chatguard/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the chats and messages of the authenticated user.
// Routes using it must sit behind middleware.AuthMiddleware.
type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Me returns the user the verified token subject resolves to.
func (h *ChatHandler) Me(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	var q httpdto.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	chats, err := h.service.ListChats(c.Request.Context(), u.ID, q.Page, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]httpdto.ChatDTO, len(chats))
	for i, ch := range chats {
		out[i] = httpdto.FromChat(ch)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ChatListResponse{Chats: out}))
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req httpdto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	ch, err := h.service.CreateChat(c.Request.Context(), u.ID, req.Title)
	if errors.Is(err, chatguard_errors.ErrNotFound) {
		// the owning user was deleted while still cached
		subject, _ := services.SubjectFromContext(c.Request.Context())
		h.service.ForgetUser(c.Request.Context(), subject)
		writeUnauthorized(c)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromChat(ch)))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var q httpdto.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	msgs, err := h.service.ListMessages(c.Request.Context(), u.ID, chatID, q.Page, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]httpdto.MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = httpdto.FromMessage(m)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessageListResponse{Messages: out}))
}

func (h *ChatHandler) AppendMessage(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req httpdto.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	m, err := h.service.AppendMessage(c.Request.Context(), u.ID, chatID, req.Content, message.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(m)))
}

func (h *ChatHandler) currentUser(c *gin.Context) (user.User, bool) {
	subject, ok := services.SubjectFromContext(c.Request.Context())
	if !ok {
		writeUnauthorized(c)
		return user.User{}, false
	}
	u, err := h.service.ResolveUser(c.Request.Context(), subject)
	if err != nil {
		writeError(c, err)
		return user.User{}, false
	}
	return u, true
}

func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, fmt.Errorf("%w: chat id", chatguard_errors.ErrInvalidInput))
		return 0, false
	}
	return id, true
}
