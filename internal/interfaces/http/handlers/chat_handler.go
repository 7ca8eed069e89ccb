package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// ChatHandler 访客对话 API 处理器
type ChatHandler struct {
	conversations *usecase.ConversationUseCase
	turns         *usecase.ChatTurnUseCase
	translate     *usecase.TranslateUseCase
	issues        *usecase.ReportIssueUseCase
	logger        *zap.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(
	conversations *usecase.ConversationUseCase,
	turns *usecase.ChatTurnUseCase,
	translate *usecase.TranslateUseCase,
	issues *usecase.ReportIssueUseCase,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		turns:         turns,
		translate:     translate,
		issues:        issues,
		logger:        logger,
	}
}

type startConversationRequest struct {
	GuestName string `json:"guestName"`
	Language  string `json:"language"`
}

type sendMessageRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	MediaURL    string `json:"mediaUrl"`
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type reportIssueRequest struct {
	Description    string `json:"description"`
	Category       string `json:"category"`
	ImageURL       string `json:"imageUrl"`
	ConversationID string `json:"conversationId"`
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// StartConversation 开始会话
// POST /api/chat/conversations/:id (id is the property)
func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.conversations.Start(c.Request.Context(), c.Param("id"), req.GuestName, req.Language)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": toConversationView(conv)})
}

// History 获取历史
// GET /api/chat/conversations/:id
func (h *ChatHandler) History(c *gin.Context) {
	msgs, err := h.conversations.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversationId": c.Param("id"),
		"messages":       mapSlice(msgs, toMessageView),
	})
}

// SendMessage 发送消息
// POST /api/chat/conversations/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	contentType := valueobject.ContentTypeText
	if req.ContentType != "" {
		ct, ok := valueobject.ParseContentType(req.ContentType)
		if !ok {
			badRequest(c, errors.New("contentType must be text or image"))
			return
		}
		contentType = ct
	}

	res, err := h.turns.Execute(c.Request.Context(), usecase.SubmitTurnInput{
		ConversationID: c.Param("id"),
		Content:        req.Content,
		ContentType:    contentType,
		MediaRef:       req.MediaURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userMessage":      toMessageView(res.UserMessage),
		"assistantMessage": toMessageView(res.AssistantMessage),
	})
}

// Translate POST /api/chat/translate
func (h *ChatHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.translate.Execute(c.Request.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": out})
}

// ReportIssue POST /api/chat/issues/:propertyId
func (h *ChatHandler) ReportIssue(c *gin.Context) {
	var req reportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	issue, err := h.issues.Execute(c.Request.Context(), usecase.ReportIssueInput{
		PropertyID:     c.Param("propertyId"),
		ConversationID: req.ConversationID,
		Description:    req.Description,
		Category:       req.Category,
		ImageRef:       req.ImageURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"issue": toIssueView(issue)})
}

