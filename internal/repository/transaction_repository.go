package repository

import (
	"context"
	"strings"
	"time"

	"financer/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// transactionColumns is the persisted column order shared by inserts and
// selects. Selects additionally read the joined category name.
var transactionColumns = []string{
	"user_id", "category_id", "type", "date", "description", "additional_information",
	"paid_out", "paid_in", "balance",
	"document_date", "document_number", "partners_account", "partners_name", "partners_tax_code",
	"partners_bank_code", "intermediary_bank_code", "charge_details", "taxpayer_code", "taxpayer_name",
	"treasury_code", "op_code", "additional_description", "transaction_id", "detected_category",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(transactionValues(tx)...).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return translateError(r.db.QueryRow(ctx, sql, args...).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt))
}

// FindByTransactionID returns the owner's transaction carrying the
// bank-issued id, or ErrNotFound.
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, userID int64, transactionID string) (*models.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"t.user_id": userID, "t.transaction_id": transactionID})
}

// FindByDedupKey matches on content. A NULL money column only matches NULL.
func (r *TransactionRepository) FindByDedupKey(ctx context.Context, key models.DedupKey) (*models.Transaction, error) {
	return r.getOne(ctx, dedupPredicate(key))
}

func dedupPredicate(key models.DedupKey) squirrel.And {
	return squirrel.And{
		squirrel.Eq{"t.user_id": key.UserID},
		squirrel.Eq{"t.date": key.Date},
		squirrel.Eq{"t.description": key.Description},
		eqNullDecimal("t.paid_out", key.PaidOut),
		eqNullDecimal("t.paid_in", key.PaidIn),
	}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"t.id": id, "t.user_id": userID})
}

// List returns one page of the owner's transactions, newest first, and the
// total number of rows matching the filter. A zero Limit returns every row.
func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error) {
	where := filterPredicate(filter)

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("transactions t").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := selectTransactions().
		Where(where).
		OrderBy("t.date DESC", "t.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	transactions, err := r.query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// ListInRange returns every transaction of the owner between start and end,
// either bound being optional, oldest first.
func (r *TransactionRepository) ListInRange(ctx context.Context, userID int64, start, end *time.Time) ([]*models.Transaction, error) {
	query := selectTransactions().
		Where(filterPredicate(models.TransactionFilter{UserID: userID, StartDate: start, EndDate: end})).
		OrderBy("t.date ASC", "t.id ASC")
	return r.query(ctx, query)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	builder := squirrel.Update("transactions").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tx.ID, "user_id": tx.UserID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	values := transactionValues(tx)
	for i, column := range transactionColumns {
		if column == "user_id" {
			continue
		}
		builder = builder.Set(column, values[i])
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	return translateError(r.db.QueryRow(ctx, sql, args...).Scan(&tx.UpdatedAt))
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID int64) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Transaction, error) {
	sql, args, err := selectTransactions().
		Where(where).
		OrderBy("t.id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err)
	}
	return tx, nil
}

func (r *TransactionRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func selectTransactions() squirrel.SelectBuilder {
	columns := make([]string, 0, len(transactionColumns)+4)
	columns = append(columns, "t.id")
	for _, c := range transactionColumns {
		columns = append(columns, "t."+c)
	}
	columns = append(columns, "c.name", "t.created_at", "t.updated_at")

	return squirrel.Select(columns...).
		From("transactions t").
		LeftJoin("categories c ON c.id = t.category_id").
		PlaceholderFormat(squirrel.Dollar)
}

func filterPredicate(filter models.TransactionFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"t.user_id": filter.UserID}}
	if filter.CategoryID != nil {
		where = append(where, squirrel.Eq{"t.category_id": *filter.CategoryID})
	}
	if filter.Type != nil {
		where = append(where, squirrel.Eq{"t.type": string(*filter.Type)})
	}
	if filter.StartDate != nil {
		where = append(where, squirrel.GtOrEq{"t.date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		where = append(where, squirrel.LtOrEq{"t.date": *filter.EndDate})
	}
	return where
}

// moneyScale is the scale of the NUMERIC(14, 2) money columns.
const moneyScale = 2

func eqNullDecimal(column string, value decimal.NullDecimal) squirrel.Eq {
	if !value.Valid {
		return squirrel.Eq{column: nil}
	}
	return squirrel.Eq{column: value.Decimal.Round(moneyScale)}
}

func transactionValues(tx *models.Transaction) []interface{} {
	return []interface{}{
		tx.UserID, tx.CategoryID, string(tx.Type), tx.Date, tx.Description, tx.AdditionalInformation,
		tx.PaidOut, tx.PaidIn, tx.Balance,
		tx.DocumentDate, tx.DocumentNumber, tx.PartnersAccount, tx.PartnersName, tx.PartnersTaxCode,
		tx.PartnersBankCode, tx.IntermediaryBankCode, tx.ChargeDetails, tx.TaxpayerCode, tx.TaxpayerName,
		tx.TreasuryCode, tx.OpCode, tx.AdditionalDescription, tx.TransactionID, tx.DetectedCategory,
	}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		tx     models.Transaction
		txType string
	)
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.CategoryID, &txType, &tx.Date, &tx.Description, &tx.AdditionalInformation,
		&tx.PaidOut, &tx.PaidIn, &tx.Balance,
		&tx.DocumentDate, &tx.DocumentNumber, &tx.PartnersAccount, &tx.PartnersName, &tx.PartnersTaxCode,
		&tx.PartnersBankCode, &tx.IntermediaryBankCode, &tx.ChargeDetails, &tx.TaxpayerCode, &tx.TaxpayerName,
		&tx.TreasuryCode, &tx.OpCode, &tx.AdditionalDescription, &tx.TransactionID, &tx.DetectedCategory,
		&tx.CategoryName, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = models.TransactionType(txType)
	return &tx, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
