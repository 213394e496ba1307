package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/transport/http/middleware"
	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

const shiftDateLayout = "2006-01-02"

// ShiftHandler exposes the marketplace endpoints: listing, browsing, and
// purchasing shifts.
type ShiftHandler struct {
	shifts    *usecase.ShiftService
	purchases *usecase.PurchaseService
}

func NewShiftHandler(shifts *usecase.ShiftService, purchases *usecase.PurchaseService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, purchases: purchases}
}

// RegisterRoutes binds shift endpoints. All of them require a session.
func (h *ShiftHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/shifts", h.Create)
	r.GET("/shifts", h.ListAvailable)
	r.GET("/shifts/mine", h.ListMine)
	r.GET("/shifts/purchases", h.ListPurchases)
	r.GET("/shifts/:id", h.Get)
	r.POST("/shifts/:id/purchase", h.Purchase)
}

var createShiftErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingTitle, Status: http.StatusBadRequest, Message: "title is required"},
	{Err: usecase.ErrInvalidPrice, Status: http.StatusBadRequest, Message: "price must not be negative"},
	{Err: usecase.ErrPastDate, Status: http.StatusBadRequest, Message: "shift date must not be in the past"},
}

// Create publishes a new listing owned by the caller.
func (h *ShiftHandler) Create(c *gin.Context) {
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid shift payload"))
		return
	}

	shiftDate, err := time.Parse(shiftDateLayout, req.ShiftDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "shift_date must be YYYY-MM-DD"))
		return
	}

	sellerID := middleware.GetUserID(c)

	shift, err := h.shifts.Create(c.Request.Context(), sellerID, domain.NewShiftInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ShiftDate:   shiftDate,
		ShiftTime:   req.ShiftTime,
		Duration:    req.Duration,
		Location:    req.Location,
	})
	if err != nil {
		RespondWithMappedError(c, err, createShiftErrorCases, http.StatusInternalServerError, "failed to create shift")
		return
	}

	c.JSON(http.StatusCreated, newShiftResponse(shift))
}

// ListAvailable returns the open marketplace.
func (h *ShiftHandler) ListAvailable(c *gin.Context) {
	shifts, err := h.shifts.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list shifts"))
		return
	}

	c.JSON(http.StatusOK, newShiftResponses(shifts))
}

// ListMine returns every listing the caller created, any status.
func (h *ShiftHandler) ListMine(c *gin.Context) {
	shifts, err := h.shifts.ListBySeller(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list shifts"))
		return
	}

	c.JSON(http.StatusOK, newShiftResponses(shifts))
}

// ListPurchases returns the listings the caller accepted as buyer.
func (h *ShiftHandler) ListPurchases(c *gin.Context) {
	shifts, err := h.shifts.ListPurchases(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list purchases"))
		return
	}

	c.JSON(http.StatusOK, newShiftResponses(shifts))
}

var getShiftErrorCases = []ErrorCase{
	{Err: usecase.ErrShiftNotFound, Status: http.StatusNotFound, Message: "shift not found"},
}

// Get resolves a single listing.
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.shifts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, getShiftErrorCases, http.StatusInternalServerError, "failed to load shift")
		return
	}

	c.JSON(http.StatusOK, newShiftResponse(*shift))
}

var purchaseErrorCases = []ErrorCase{
	{Err: usecase.ErrShiftNotFound, Status: http.StatusNotFound, Message: "shift not found"},
	{Err: usecase.ErrOwnShift, Status: http.StatusBadRequest, Message: "cannot purchase your own shift"},
	{Err: usecase.ErrShiftTaken, Status: http.StatusConflict, Message: "shift no longer available"},
}

// Purchase accepts a listing on behalf of the caller. Exactly one buyer wins;
// everyone else gets a conflict.
func (h *ShiftHandler) Purchase(c *gin.Context) {
	shift, err := h.purchases.Purchase(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		RespondWithMappedError(c, err, purchaseErrorCases, http.StatusInternalServerError, "failed to purchase shift")
		return
	}

	c.JSON(http.StatusOK, newShiftResponse(*shift))
}
