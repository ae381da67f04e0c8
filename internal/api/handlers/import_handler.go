package handlers

import (
	"context"
	"errors"
	"io"
	"strings"

	"financer/internal/bankparser"
	"financer/internal/dto"
	"financer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ImportHandler struct {
	importService  *service.ImportService
	maxUploadBytes int
	logger         *zap.Logger
}

func NewImportHandler(importService *service.ImportService, maxUploadBytes int, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ImportCSV godoc
// @Summary Import a bank statement
// @Description Upload a CSV statement; the bank format is detected from its header
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV statement"
// @Security Bearer
// @Success 200 {object} dto.ImportReport
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /api/v1/transactions/import/csv [post]
func (h *ImportHandler) ImportCSV(c *fiber.Ctx) error {
	return h.importStatement(c, "")
}

// ImportBankCSV godoc
// @Summary Import a statement of a given bank
// @Description Upload a CSV statement and parse it with the named bank format
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param bankCode path string true "Bank code (TBC, BOG)"
// @Param file formData file true "CSV statement"
// @Security Bearer
// @Success 200 {object} dto.ImportReport
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions/import/csv/{bankCode} [post]
func (h *ImportHandler) ImportBankCSV(c *fiber.Ctx) error {
	return h.importStatement(c, c.Params("bankCode"))
}

// SupportedBanks godoc
// @Summary List supported banks
// @Tags import
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SupportedBanksResponse
// @Router /api/v1/transactions/banks/supported [get]
func (h *ImportHandler) SupportedBanks(c *fiber.Ctx) error {
	codes := h.importService.SupportedBanks()
	banks := make([]string, len(codes))
	for i, code := range codes {
		banks[i] = string(code)
	}
	return c.JSON(dto.SupportedBanksResponse{Banks: banks})
}

func (h *ImportHandler) importStatement(c *fiber.Ctx, bankCode string) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	content, status, err := h.readStatement(c)
	if err != nil {
		return errorResponse(c, status, err.Error())
	}

	var report *dto.ImportReport
	if bankCode == "" {
		report, err = h.importService.ImportFromCSV(c.Context(), content, userID)
	} else {
		report, err = h.importService.ImportFromBankCSV(c.Context(), content, bankCode, userID)
	}

	if err != nil {
		switch {
		case errors.Is(err, bankparser.ErrUnsupportedBank):
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidStatement):
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			h.logger.Warn("Import cancelled", zap.Int64("user_id", userID), zap.Error(err))
			return errorResponse(c, fiber.StatusRequestTimeout, "Import cancelled")
		}
		h.logger.Error("Import failed", zap.Int64("user_id", userID), zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Import failed")
	}

	return c.JSON(report)
}

// readStatement takes the multipart "file" field, or the raw body when the
// request is sent as text/csv.
func (h *ImportHandler) readStatement(c *fiber.Ctx) (string, int, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), "text/csv") {
		body := c.Body()
		if len(body) == 0 {
			return "", fiber.StatusBadRequest, errors.New("CSV body is empty")
		}
		if h.maxUploadBytes > 0 && len(body) > h.maxUploadBytes {
			return "", fiber.StatusRequestEntityTooLarge, errors.New("file is too large")
		}
		return string(body), 0, nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return "", fiber.StatusBadRequest, errors.New("file is required")
	}
	if h.maxUploadBytes > 0 && file.Size > int64(h.maxUploadBytes) {
		return "", fiber.StatusRequestEntityTooLarge, errors.New("file is too large")
	}

	src, err := file.Open()
	if err != nil {
		return "", fiber.StatusBadRequest, errors.New("failed to open file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fiber.StatusBadRequest, errors.New("failed to read file")
	}
	return string(data), 0, nil
}
