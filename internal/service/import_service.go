package service

import (
	"context"
	"errors"
	"fmt"

	"financer/internal/bankparser"
	"financer/internal/dto"
	"financer/internal/models"
	"financer/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const importErrorPrefix = "Error importing transaction: "

// ErrInvalidStatement marks content that could not be read as a statement.
var ErrInvalidStatement = errors.New("invalid statement")

// CategoryResolver maps a detected category name to a stored category.
type CategoryResolver interface {
	FindOrCreate(ctx context.Context, name string) (*models.Category, error)
}

// ImportService turns bank statements into stored transactions for one
// owner, skipping rows that were imported before.
type ImportService struct {
	registry     *bankparser.Registry
	transactions TransactionStore
	categories   CategoryResolver
	logger       *zap.Logger
}

func NewImportService(registry *bankparser.Registry, transactions TransactionStore, categories CategoryResolver, logger *zap.Logger) *ImportService {
	return &ImportService{
		registry:     registry,
		transactions: transactions,
		categories:   categories,
		logger:       logger,
	}
}

// ImportFromCSV detects the statement format of content and imports it.
func (s *ImportService) ImportFromCSV(ctx context.Context, content string, userID int64) (*dto.ImportReport, error) {
	format := s.registry.Select(content)
	if format == nil {
		return nil, bankparser.ErrUnsupportedBank
	}
	return s.importWith(ctx, format, content, userID)
}

// ImportFromBankCSV imports content with the format registered under
// bankCode. Unknown codes fail before anything is parsed.
func (s *ImportService) ImportFromBankCSV(ctx context.Context, content, bankCode string, userID int64) (*dto.ImportReport, error) {
	format, err := s.registry.ByCode(bankCode)
	if err != nil {
		return nil, err
	}
	return s.importWith(ctx, format, content, userID)
}

func (s *ImportService) SupportedBanks() []bankparser.BankCode {
	return s.registry.Supported()
}

func (s *ImportService) importWith(ctx context.Context, format *bankparser.Format, content string, userID int64) (*dto.ImportReport, error) {
	result, err := format.Parse(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatement, err)
	}

	if result.Dropped > 0 {
		s.logger.Debug("Statement rows dropped",
			zap.String("bank", string(result.Bank)),
			zap.Int("dropped", result.Dropped),
		)
	}

	report, err := s.ImportParsed(ctx, result.Transactions, userID)
	if report != nil {
		report.Bank = string(result.Bank)
		report.Dropped = result.Dropped
	}
	return report, err
}

// ImportParsed stores records for userID one by one. A record that fails is
// reported in the returned report and does not stop the run. When ctx is
// done the report so far is returned together with ctx's error.
func (s *ImportService) ImportParsed(ctx context.Context, records []bankparser.NormalizedTransaction, userID int64) (*dto.ImportReport, error) {
	log := s.logger.With(
		zap.String("import_id", uuid.NewString()),
		zap.Int64("user_id", userID),
	)
	log.Info("Import started", zap.Int("records", len(records)))

	report := &dto.ImportReport{Errors: []string{}}
	for i := range records {
		if err := ctx.Err(); err != nil {
			log.Warn("Import interrupted",
				zap.Int("processed", i),
				zap.Int("imported", report.Imported),
				zap.Error(err),
			)
			return report, err
		}

		stored, err := s.importOne(ctx, &records[i], userID)
		switch {
		case err != nil:
			log.Warn("Failed to import transaction", zap.Int("record", i), zap.Error(err))
			report.Errors = append(report.Errors, importErrorPrefix+err.Error())
		case stored:
			report.Imported++
		default:
			report.Skipped++
		}
	}

	log.Info("Import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

// importOne reports false when the record is a duplicate.
func (s *ImportService) importOne(ctx context.Context, record *bankparser.NormalizedTransaction, userID int64) (bool, error) {
	duplicate, err := s.isDuplicate(ctx, record, userID)
	if err != nil {
		return false, err
	}
	if duplicate {
		return false, nil
	}

	tx := toTransactionModel(record, userID)
	if record.DetectedCategory != "" {
		category, err := s.categories.FindOrCreate(ctx, record.DetectedCategory)
		if err != nil {
			return false, err
		}
		tx.CategoryID = &category.ID
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return false, fmt.Errorf("failed to store transaction: %w", err)
	}
	return true, nil
}

// isDuplicate matches on the bank-issued id when the record has one, and on
// the record's content otherwise. Amounts are compared at the stored scale.
func (s *ImportService) isDuplicate(ctx context.Context, record *bankparser.NormalizedTransaction, userID int64) (bool, error) {
	var err error
	if record.TransactionID != "" {
		_, err = s.transactions.FindByTransactionID(ctx, userID, record.TransactionID)
	} else {
		_, err = s.transactions.FindByDedupKey(ctx, models.DedupKey{
			UserID:      userID,
			Date:        record.Date,
			PaidOut:     bankparser.RoundNullAmount(record.PaidOut),
			PaidIn:      bankparser.RoundNullAmount(record.PaidIn),
			Description: sanitizeUTF8(record.Description),
		})
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up existing transaction: %w", err)
	}
}

func toTransactionModel(record *bankparser.NormalizedTransaction, userID int64) *models.Transaction {
	return &models.Transaction{
		UserID:                userID,
		Type:                  record.Type,
		Date:                  record.Date,
		Description:           sanitizeUTF8(record.Description),
		AdditionalInformation: optionalString(record.AdditionalInformation),
		PaidOut:               bankparser.RoundNullAmount(record.PaidOut),
		PaidIn:                bankparser.RoundNullAmount(record.PaidIn),
		Balance:               bankparser.RoundAmount(record.Balance),
		DocumentDate:          record.DocumentDate,
		DocumentNumber:        optionalString(record.DocumentNumber),
		PartnersAccount:       optionalString(record.PartnersAccount),
		PartnersName:          optionalString(record.PartnersName),
		PartnersTaxCode:       optionalString(record.PartnersTaxCode),
		PartnersBankCode:      optionalString(record.PartnersBankCode),
		IntermediaryBankCode:  optionalString(record.IntermediaryBankCode),
		ChargeDetails:         optionalString(record.ChargeDetails),
		TaxpayerCode:          optionalString(record.TaxpayerCode),
		TaxpayerName:          optionalString(record.TaxpayerName),
		TreasuryCode:          optionalString(record.TreasuryCode),
		OpCode:                optionalString(record.OpCode),
		AdditionalDescription: optionalString(record.AdditionalDescription),
		TransactionID:         optionalString(record.TransactionID),
		DetectedCategory:      optionalString(record.DetectedCategory),
	}
}
