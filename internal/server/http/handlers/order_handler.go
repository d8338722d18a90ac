package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/lifecycle"
	"github.com/polkiloo/catering/internal/server/http/dto"
	"github.com/polkiloo/catering/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	actor := CurrentActor(c)
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), actor, usecase.PlaceOrderInput{
		RestaurantID:   req.RestaurantID,
		Total:          req.Total,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(model.OrderView{
		Order:     *order,
		Effective: lifecycle.DeriveEffectiveStatus(*order, nil),
		Next:      lifecycle.NextStates(order.Status, actor.Role),
	}))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter := usecase.OrderFilter{
		Status: c.Query("status"),
		Range:  c.Query("range"),
	}
	if raw := c.Query("restaurant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid restaurant_id"})
			return
		}
		filter.RestaurantID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	views, err := h.facade.Orders(c.Request.Context(), CurrentActor(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(views) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(views))
	for _, v := range views {
		response = append(response, toOrderResponse(v))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.facade.Order(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*view))
}

// Transition handles POST /api/orders/:id/transitions.
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	expected := model.StatusPtr(model.OrderStatus(req.ExpectedStatus))
	view, err := h.facade.Transition(c.Request.Context(), CurrentActor(c), id, model.OrderStatus(req.Status), expected)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*view))
}

// Timeline handles GET /api/orders/:id/timeline.
func (h *OrderHandler) Timeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.facade.Timeline(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.TimelineEntryResponse, 0)
	for entry, err := range entries {
		if err != nil {
			writeError(c, err)
			return
		}
		response = append(response, toTimelineResponse(entry))
	}
	c.JSON(http.StatusOK, response)
}

// Audit handles GET /api/orders/:id/audit. A broken walk is reported in the
// body; only lookup failures produce error statuses.
func (h *OrderHandler) Audit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.facade.Audit(c.Request.Context(), CurrentActor(c), id)
	if err != nil && entries == nil {
		writeError(c, err)
		return
	}

	resp := dto.AuditResponse{Valid: err == nil, Entries: len(entries)}
	if err != nil {
		resp.Problem = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func toOrderResponse(v model.OrderView) dto.OrderResponse {
	next := make([]string, 0, len(v.Next))
	for _, s := range v.Next {
		next = append(next, string(s))
	}
	resp := dto.OrderResponse{
		ID:              v.Order.ID,
		Number:          v.Order.Number,
		Status:          string(v.Order.Status),
		EffectiveStatus: string(v.Effective),
		StatusLabel:     lifecycle.Label(v.Effective),
		Total:           v.Order.Total,
		SpecialRequest:  v.Order.SpecialRequest,
		CustomerID:      v.Order.CustomerID,
		RestaurantID:    v.Order.RestaurantID,
		CreatedAt:       v.Order.CreatedAt,
		NextStatuses:    next,
	}
	if v.Invoice != nil {
		inv := toInvoiceResponse(*v.Invoice)
		resp.Invoice = &inv
	}
	return resp
}

func toTimelineResponse(e model.TimelineEntry) dto.TimelineEntryResponse {
	resp := dto.TimelineEntryResponse{
		OldLabel:  e.OldLabel,
		NewStatus: string(e.NewStatus),
		NewLabel:  e.NewLabel,
		ChangedBy: e.ChangedBy,
		ChangedAt: e.ChangedAt,
	}
	if e.OldStatus != nil {
		old := string(*e.OldStatus)
		resp.OldStatus = &old
	}
	return resp
}
