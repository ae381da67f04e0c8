package service

import (
	"context"
	"time"

	"financer/internal/models"
)

// TransactionStore is the persistence the transaction and import services
// need. *repository.TransactionRepository implements it.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByTransactionID(ctx context.Context, userID int64, transactionID string) (*models.Transaction, error)
	FindByDedupKey(ctx context.Context, key models.DedupKey) (*models.Transaction, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error)
	ListInRange(ctx context.Context, userID int64, start, end *time.Time) ([]*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id, userID int64) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	CreateIfNotExists(ctx context.Context, category *models.Category) (*models.Category, error)
	CreateBatch(ctx context.Context, categories []*models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
