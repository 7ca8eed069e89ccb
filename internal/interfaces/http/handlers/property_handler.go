package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/entity"
)

// PropertyHandler 房源 API 处理器
type PropertyHandler struct {
	properties *usecase.PropertyUseCase
	logger     *zap.Logger
}

func NewPropertyHandler(properties *usecase.PropertyUseCase, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, logger: logger}
}

type propertyRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Address       *string   `json:"address"`
	City          *string   `json:"city"`
	Country       *string   `json:"country"`
	Equipments    *[]string `json:"equipments"`
	AIPrompt      *string   `json:"aiPrompt"`
	AITone        *string   `json:"aiTone"`
	AIPersonality *string   `json:"aiPersonality"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r propertyRequest) spec() entity.PropertySpec {
	spec := entity.PropertySpec{
		Name:          deref(r.Name),
		Description:   deref(r.Description),
		Address:       deref(r.Address),
		City:          deref(r.City),
		Country:       deref(r.Country),
		AIPrompt:      deref(r.AIPrompt),
		AITone:        deref(r.AITone),
		AIPersonality: deref(r.AIPersonality),
	}
	if r.Equipments != nil {
		spec.Equipment = *r.Equipments
	}
	return spec
}

func (r propertyRequest) patch() entity.PropertyPatch {
	return entity.PropertyPatch{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		City:          r.City,
		Country:       r.Country,
		Equipment:     r.Equipments,
		AIPrompt:      r.AIPrompt,
		AITone:        r.AITone,
		AIPersonality: r.AIPersonality,
	}
}

// Create POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.properties.Create(c.Request.Context(), hostID(c), req.spec())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"property": toPropertyView(p)})
}

// List GET /api/properties
func (h *PropertyHandler) List(c *gin.Context) {
	list, err := h.properties.List(c.Request.Context(), hostID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": mapSlice(list, func(s *entity.PropertySummary) propertySummaryView {
		return propertySummaryView{
			propertyView: toPropertyView(s.Property),
			Count: countsView{
				Conversations: s.ConversationCount,
				Issues:        s.IssueCount,
				Services:      s.ServiceCount,
			},
		}
	})})
}

// Get GET /api/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	d, err := h.properties.Get(c.Request.Context(), hostID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": propertyDetailView{
		propertyView:   toPropertyView(d.Property),
		KnowledgeItems: mapSlice(d.KnowledgeItems, toKnowledgeItemView),
		Services:       mapSlice(d.Services, toServiceView),
		CheckInSteps:   mapSlice(d.CheckInSteps, toCheckInStepView),
		Count: countsView{
			Conversations: d.ConversationCount,
			Issues:        d.IssueCount,
			Services:      int64(len(d.Services)),
		},
	}})
}

// Update PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.properties.Update(c.Request.Context(), hostID(c), c.Param("id"), req.patch())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": toPropertyView(p)})
}

// Delete DELETE /api/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.properties.Delete(c.Request.Context(), hostID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPublic GET /api/properties/public/:propertyId
func (h *PropertyHandler) GetPublic(c *gin.Context) {
	p, err := h.properties.GetPublic(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": toPublicPropertyView(p)})
}

type knowledgeRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// AddKnowledge POST /api/properties/:id/knowledge
func (h *PropertyHandler) AddKnowledge(c *gin.Context) {
	var req knowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.properties.AddKnowledgeItem(c.Request.Context(), hostID(c), c.Param("id"), req.Title, req.Content, req.Category)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"knowledgeItem": toKnowledgeItemView(item)})
}

// DeleteKnowledge DELETE /api/properties/:id/knowledge/:itemId
func (h *PropertyHandler) DeleteKnowledge(c *gin.Context) {
	if err := h.properties.DeleteKnowledgeItem(c.Request.Context(), hostID(c), c.Param("id"), c.Param("itemId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type serviceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	IsAvailable *bool    `json:"isAvailable"`
	IsPaid      *bool    `json:"isPaid"`
	Price       *float64 `json:"price"`
}

// AddService POST /api/properties/:id/services
func (h *PropertyHandler) AddService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := usecase.ServiceInput{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		IsPaid:      req.IsPaid != nil && *req.IsPaid,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	s, err := h.properties.AddService(c.Request.Context(), hostID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": toServiceView(s)})
}

// UpdateService PUT /api/properties/:id/services/:serviceId
func (h *PropertyHandler) UpdateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.properties.UpdateService(c.Request.Context(), hostID(c), c.Param("id"), c.Param("serviceId"), entity.ServicePatch{
		Name:        req.Name,
		Description: req.Description,
		IsAvailable: req.IsAvailable,
		IsPaid:      req.IsPaid,
		Price:       req.Price,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": toServiceView(s)})
}

// DeleteService DELETE /api/properties/:id/services/:serviceId
func (h *PropertyHandler) DeleteService(c *gin.Context) {
	if err := h.properties.DeleteService(c.Request.Context(), hostID(c), c.Param("id"), c.Param("serviceId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type checkInRequest struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AddCheckInStep POST /api/properties/:id/checkin
func (h *PropertyHandler) AddCheckInStep(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.properties.AddCheckInStep(c.Request.Context(), hostID(c), c.Param("id"), req.Step, req.Title, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkInStep": toCheckInStepView(s)})
}

// DeleteCheckInStep DELETE /api/properties/:id/checkin/:stepId
func (h *PropertyHandler) DeleteCheckInStep(c *gin.Context) {
	if err := h.properties.DeleteCheckInStep(c.Request.Context(), hostID(c), c.Param("id"), c.Param("stepId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListIssues GET /api/properties/:id/issues
func (h *PropertyHandler) ListIssues(c *gin.Context) {
	issues, err := h.properties.ListIssues(c.Request.Context(), hostID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": mapSlice(issues, toIssueView)})
}

// ListNotifications GET /api/notifications
func (h *PropertyHandler) ListNotifications(c *gin.Context) {
	notes, err := h.properties.ListNotifications(c.Request.Context(), hostID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": mapSlice(notes, toNotificationView)})
}

// MarkNotificationRead POST /api/notifications/:id/read
func (h *PropertyHandler) MarkNotificationRead(c *gin.Context) {
	if err := h.properties.MarkNotificationRead(c.Request.Context(), hostID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
