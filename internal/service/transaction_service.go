package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"financer/internal/bankparser"
	"financer/internal/dto"
	"financer/internal/models"
	"financer/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// ListQuery is a page request over one owner's transactions.
type ListQuery struct {
	Page       int
	Limit      int
	CategoryID *int64
	Type       *models.TransactionType
	StartDate  *time.Time
	EndDate    *time.Time
}

type TransactionService struct {
	store  TransactionStore
	logger *zap.Logger
}

func NewTransactionService(store TransactionStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

func (s *TransactionService) Create(ctx context.Context, userID int64, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidTransaction)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidTransaction)
	}

	tx := &models.Transaction{
		UserID:                userID,
		CategoryID:            req.CategoryID,
		Date:                  date,
		Description:           sanitizeUTF8(req.Description),
		AdditionalInformation: req.AdditionalInformation,
		PaidOut:               nullDecimal(req.PaidOut),
		PaidIn:                nullDecimal(req.PaidIn),
		TransactionID:         req.TransactionID,
	}
	if req.Balance != nil {
		tx.Balance = *req.Balance
	}
	if err := setType(tx, req.Type); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, fmt.Errorf("%w: category does not exist", ErrInvalidTransaction)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("Transaction created", zap.Int64("user_id", userID), zap.Int64("transaction_id", tx.ID))
	return toTransactionResponse(tx), nil
}

func (s *TransactionService) List(ctx context.Context, userID int64, q ListQuery) (*dto.TransactionListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	q.Limit = min(q.Limit, maxPageSize)

	transactions, total, err := s.store.List(ctx, models.TransactionFilter{
		UserID:     userID,
		CategoryID: q.CategoryID,
		Type:       q.Type,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		Total:        total,
		Page:         q.Page,
		Limit:        q.Limit,
		TotalPages:   int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}
	for _, tx := range transactions {
		resp.Transactions = append(resp.Transactions, *toTransactionResponse(tx))
	}
	return resp, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (*dto.TransactionResponse, error) {
	tx, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		date, err := time.Parse(dto.DateLayout, *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidTransaction)
		}
		tx.Date = date
	}
	if req.Description != nil {
		tx.Description = sanitizeUTF8(*req.Description)
	}
	if req.AdditionalInformation != nil {
		tx.AdditionalInformation = req.AdditionalInformation
	}
	if req.PaidOut != nil {
		tx.PaidOut = nullDecimal(req.PaidOut)
	}
	if req.PaidIn != nil {
		tx.PaidIn = nullDecimal(req.PaidIn)
	}
	if req.Balance != nil {
		tx.Balance = *req.Balance
	}
	if req.CategoryID != nil {
		tx.CategoryID = req.CategoryID
	}

	var kind string
	if req.Type != nil {
		kind = *req.Type
	}
	if req.Type != nil || req.PaidOut != nil || req.PaidIn != nil {
		if err := setType(tx, kind); err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, tx); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTransactionNotFound
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, fmt.Errorf("%w: category does not exist", ErrInvalidTransaction)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return toTransactionResponse(tx), nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// Stats aggregates the owner's transactions between start and end.
func (s *TransactionService) Stats(ctx context.Context, userID int64, start, end *time.Time) (*dto.StatsResponse, error) {
	transactions, err := s.store.ListInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return computeStats(transactions), nil
}

func (s *TransactionService) get(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// setType applies an explicit type, or derives one from the money columns
// when kind is empty.
func setType(tx *models.Transaction, kind string) error {
	if kind == "" {
		tx.Type = bankparser.Classify(tx.PaidOut.Decimal, tx.PaidIn.Decimal)
		return nil
	}
	t := models.TransactionType(strings.ToLower(kind))
	if !t.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, kind)
	}
	tx.Type = t
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(bankparser.RoundAmount(d.Abs()))
}

func toTransactionResponse(tx *models.Transaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:                    tx.ID,
		Type:                  string(tx.Type),
		Date:                  tx.Date.Format(dto.DateLayout),
		Description:           tx.Description,
		AdditionalInformation: tx.AdditionalInformation,
		Balance:               tx.Balance,
		CategoryID:            tx.CategoryID,
		CategoryName:          tx.CategoryName,
		DetectedCategory:      tx.DetectedCategory,
		DocumentNumber:        tx.DocumentNumber,
		PartnersAccount:       tx.PartnersAccount,
		PartnersName:          tx.PartnersName,
		PartnersTaxCode:       tx.PartnersTaxCode,
		PartnersBankCode:      tx.PartnersBankCode,
		IntermediaryBankCode:  tx.IntermediaryBankCode,
		ChargeDetails:         tx.ChargeDetails,
		TaxpayerCode:          tx.TaxpayerCode,
		TaxpayerName:          tx.TaxpayerName,
		TreasuryCode:          tx.TreasuryCode,
		OpCode:                tx.OpCode,
		AdditionalDescription: tx.AdditionalDescription,
		TransactionID:         tx.TransactionID,
		CreatedAt:             formatTimestamp(tx.CreatedAt),
		UpdatedAt:             formatTimestamp(tx.UpdatedAt),
	}
	if tx.PaidOut.Valid {
		resp.PaidOut = &tx.PaidOut.Decimal
	}
	if tx.PaidIn.Valid {
		resp.PaidIn = &tx.PaidIn.Decimal
	}
	if tx.DocumentDate != nil {
		d := tx.DocumentDate.Format(dto.DateLayout)
		resp.DocumentDate = &d
	}
	return resp
}
