package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"financer/internal/bankparser"
	"financer/internal/dto"
	"financer/internal/models"
	"financer/internal/repository"
	"financer/internal/service"
	"financer/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tbcStatement = "თარიღი,აღწერა,დამატებითი ინფორმაცია,გასული თანხა,შემოსული თანხა,ნაშთი,ტრანზაქციის ID\n" +
	"Date,Description,Additional Information,Paid Out,Paid In,Balance,Transaction ID\n" +
	"15/01/2024,Coffee,MCC:5814,12.50,,987.50,TX-1\n" +
	"16/01/2024,Salary,,,\"2,000.00\",\"2,987.50\",TX-2\n" +
	"not a date,Broken row,,5.00,,0,TX-3\n"

const bogStatement = "თარიღი,დანიშნულება,,GEL,USD,EUR,GBP\n" +
	"15/01/2024,Taxi,,-12.50,,,\n" +
	"16/01/2024,Refund,,,20.00,,\n" +
	"17/01/2024,Internal move,,,,,\n"

// transactionRecorder stores created transactions; lookups never find a
// duplicate. Methods the import path does not use are left to the embedded
// nil interface.
type transactionRecorder struct {
	service.TransactionStore

	mu      sync.Mutex
	created []*models.Transaction
}

func (r *transactionRecorder) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx.ID = int64(len(r.created) + 1)
	r.created = append(r.created, tx)
	return nil
}

func (r *transactionRecorder) FindByTransactionID(context.Context, int64, string) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (r *transactionRecorder) FindByDedupKey(context.Context, models.DedupKey) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

type staticCategories struct{}

func (staticCategories) FindOrCreate(_ context.Context, name string) (*models.Category, error) {
	return &models.Category{ID: 1, Name: name}, nil
}

func newImportApp(t *testing.T, maxUploadBytes int, userID int64) (*fiber.App, *transactionRecorder) {
	t.Helper()

	store := &transactionRecorder{}
	importService := service.NewImportService(bankparser.NewRegistry(), store, staticCategories{}, zap.NewNop())
	h := NewImportHandler(importService, maxUploadBytes, zap.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID > 0 {
			c.Locals(middleware.LocalUserID, userID)
		}
		return c.Next()
	})
	app.Post("/import/csv", h.ImportCSV)
	app.Post("/import/csv/:bankCode", h.ImportBankCSV)
	app.Get("/banks/supported", h.SupportedBanks)
	return app, store
}

func multipartRequest(t *testing.T, target, field, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, "statement.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func csvRequest(target, content string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(content))
	req.Header.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return req
}

func decodeReport(t *testing.T, resp *http.Response) dto.ImportReport {
	t.Helper()
	var report dto.ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return report
}

func TestImportHandler_AutoDetect(t *testing.T) {
	app, store := newImportApp(t, 0, 42)

	resp, err := app.Test(multipartRequest(t, "/import/csv", "file", tbcStatement))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeReport(t, resp)
	assert.Equal(t, "TBC", report.Bank)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Dropped)
	assert.Empty(t, report.Errors)

	require.Len(t, store.created, 2)
	for _, tx := range store.created {
		assert.Equal(t, int64(42), tx.UserID)
	}
}

func TestImportHandler_BankCodeWithRawBody(t *testing.T) {
	app, store := newImportApp(t, 0, 7)

	resp, err := app.Test(csvRequest("/import/csv/bog", bogStatement))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeReport(t, resp)
	assert.Equal(t, "BOG", report.Bank)
	assert.Equal(t, 3, report.Imported)
	assert.Len(t, store.created, 3)
}

func TestImportHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		maxUpload int
		userID    int64
		req       func(t *testing.T) *http.Request
		want      int
	}{
		{
			name:   "unsupported bank",
			userID: 1,
			req:    func(t *testing.T) *http.Request { return csvRequest("/import/csv/xyz", tbcStatement) },
			want:   http.StatusBadRequest,
		},
		{
			name:   "missing file field",
			userID: 1,
			req:    func(t *testing.T) *http.Request { return multipartRequest(t, "/import/csv", "other", tbcStatement) },
			want:   http.StatusBadRequest,
		},
		{
			name:   "empty body",
			userID: 1,
			req:    func(t *testing.T) *http.Request { return csvRequest("/import/csv", "") },
			want:   http.StatusBadRequest,
		},
		{
			name:      "too large",
			maxUpload: 16,
			userID:    1,
			req:       func(t *testing.T) *http.Request { return csvRequest("/import/csv", tbcStatement) },
			want:      http.StatusRequestEntityTooLarge,
		},
		{
			name: "no user",
			req:  func(t *testing.T) *http.Request { return csvRequest("/import/csv", tbcStatement) },
			want: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := newImportApp(t, tt.maxUpload, tt.userID)

			resp, err := app.Test(tt.req(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Empty(t, store.created)
		})
	}
}

func TestImportHandler_SupportedBanks(t *testing.T) {
	app, _ := newImportApp(t, 0, 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/banks/supported", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SupportedBanksResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"TBC", "BOG"}, body.Banks)
}
