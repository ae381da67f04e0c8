package handlers

import (
	"errors"
	"strconv"
	"strings"

	"financer/internal/dto"
	"financer/internal/models"
	"financer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
	logger             *zap.Logger
}

func NewTransactionHandler(transactionService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Security Bearer
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.transactionService.Create(c.Context(), userID, &req)
	if err != nil {
		return h.fail(c, "Failed to create transaction", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTransactions godoc
// @Summary List transactions
// @Description Page through the caller's transactions, newest first
// @Tags transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Param categoryId query int false "Category filter"
// @Param type query string false "income, expense or transfer"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Security Bearer
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	q := service.ListQuery{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 0),
	}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid categoryId")
		}
		q.CategoryID = &id
	}
	if raw := c.Query("type"); raw != "" {
		kind := models.TransactionType(strings.ToLower(raw))
		if !kind.Valid() {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid type")
		}
		q.Type = &kind
	}
	if q.StartDate, err = parseDateQuery(c, "startDate"); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid startDate")
	}
	if q.EndDate, err = parseDateQuery(c, "endDate"); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid endDate")
	}

	resp, err := h.transactionService.List(c.Context(), userID, q)
	if err != nil {
		return h.fail(c, "Failed to list transactions", err)
	}
	return c.JSON(resp)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	resp, err := h.transactionService.Get(c.Context(), userID, id)
	if err != nil {
		return h.fail(c, "Failed to get transaction", err)
	}
	return c.JSON(resp)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	var req dto.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.transactionService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return h.fail(c, "Failed to update transaction", err)
	}
	return c.JSON(resp)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Security Bearer
// @Success 204 {string} string "No Content"
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	if err := h.transactionService.Delete(c.Context(), userID, id); err != nil {
		return h.fail(c, "Failed to delete transaction", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStats godoc
// @Summary Spending statistics
// @Description Totals, expenses by category and monthly trends
// @Tags transactions
// @Produce json
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Security Bearer
// @Success 200 {object} dto.StatsResponse
// @Router /api/v1/transactions/stats [get]
func (h *TransactionHandler) GetStats(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	start, err := parseDateQuery(c, "startDate")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid startDate")
	}
	end, err := parseDateQuery(c, "endDate")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid endDate")
	}

	stats, err := h.transactionService.Stats(c.Context(), userID, start, end)
	if err != nil {
		return h.fail(c, "Failed to compute stats", err)
	}
	return c.JSON(stats)
}

func (h *TransactionHandler) fail(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		return errorResponse(c, fiber.StatusNotFound, "Transaction not found")
	case errors.Is(err, service.ErrInvalidTransaction):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	h.logger.Error(message, zap.Error(err))
	return errorResponse(c, fiber.StatusInternalServerError, message)
}
