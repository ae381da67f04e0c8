package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"financer/internal/models"
	"financer/internal/repository"

	"github.com/shopspring/decimal"
)

type memTransactionStore struct {
	mu       sync.Mutex
	rows     []*models.Transaction
	nextID   int64
	failOn   string // Create fails for transactions with this description
	onCreate func(tx *models.Transaction)
	lookups  int
}

func newMemTransactionStore() *memTransactionStore {
	return &memTransactionStore{}
}

func (m *memTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn != "" && tx.Description == m.failOn {
		return errors.New("connection reset")
	}
	m.nextID++
	tx.ID = m.nextID
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	stored := *tx
	// NUMERIC(14, 2) columns round on insert.
	stored.PaidOut = numericColumn(stored.PaidOut)
	stored.PaidIn = numericColumn(stored.PaidIn)
	stored.Balance = stored.Balance.Round(2)
	m.rows = append(m.rows, &stored)
	if m.onCreate != nil {
		m.onCreate(tx)
	}
	return nil
}

func (m *memTransactionStore) FindByTransactionID(_ context.Context, userID int64, transactionID string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++

	for _, row := range m.rows {
		if row.UserID == userID && row.TransactionID != nil && *row.TransactionID == transactionID {
			return row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memTransactionStore) FindByDedupKey(_ context.Context, key models.DedupKey) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++

	for _, row := range m.rows {
		if row.UserID == key.UserID &&
			row.Date.Equal(key.Date) &&
			row.Description == key.Description &&
			sameNullDecimal(row.PaidOut, key.PaidOut) &&
			sameNullDecimal(row.PaidIn, key.PaidIn) {
			return row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memTransactionStore) GetByID(_ context.Context, id, userID int64) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.ID == id && row.UserID == userID {
			tx := *row
			return &tx, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memTransactionStore) List(_ context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*models.Transaction
	for _, row := range m.rows {
		if matchesFilter(row, filter) {
			matched = append(matched, row)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	total := int64(len(matched))
	if filter.Limit > 0 {
		start := min(filter.Offset, len(matched))
		end := min(start+filter.Limit, len(matched))
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (m *memTransactionStore) ListInRange(_ context.Context, userID int64, start, end *time.Time) ([]*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*models.Transaction
	for _, row := range m.rows {
		if matchesFilter(row, models.TransactionFilter{UserID: userID, StartDate: start, EndDate: end}) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (m *memTransactionStore) Update(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, row := range m.rows {
		if row.ID == tx.ID && row.UserID == tx.UserID {
			updated := *tx
			m.rows[i] = &updated
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memTransactionStore) Delete(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, row := range m.rows {
		if row.ID == id && row.UserID == userID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memTransactionStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func matchesFilter(row *models.Transaction, filter models.TransactionFilter) bool {
	if row.UserID != filter.UserID {
		return false
	}
	if filter.CategoryID != nil && (row.CategoryID == nil || *row.CategoryID != *filter.CategoryID) {
		return false
	}
	if filter.Type != nil && row.Type != *filter.Type {
		return false
	}
	if filter.StartDate != nil && row.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && row.Date.After(*filter.EndDate) {
		return false
	}
	return true
}

func numericColumn(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(2))
}

func sameNullDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

type memCategoryStore struct {
	mu         sync.Mutex
	byName     map[string]*models.Category
	nextID     int64
	nameLookup int
	creates    int
	// beforeWrite runs, without the lock held, at the start of Update and Delete.
	beforeWrite func()
}

func newMemCategoryStore() *memCategoryStore {
	return &memCategoryStore{byName: map[string]*models.Category{}}
}

func (m *memCategoryStore) Create(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[category.Name]; ok {
		return repository.ErrDuplicate
	}
	m.insert(category)
	return nil
}

func (m *memCategoryStore) CreateIfNotExists(_ context.Context, category *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byName[category.Name]; ok {
		c := *existing
		return &c, nil
	}
	m.insert(category)
	c := *category
	return &c, nil
}

func (m *memCategoryStore) CreateBatch(_ context.Context, categories []*models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range categories {
		if _, ok := m.byName[c.Name]; !ok {
			m.insert(c)
		}
	}
	return nil
}

func (m *memCategoryStore) insert(category *models.Category) {
	m.nextID++
	m.creates++
	category.ID = m.nextID
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	m.byName[category.Name] = &stored
}

func (m *memCategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.byName {
		if c.ID == id {
			found := *c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCategoryStore) GetByName(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nameLookup++

	if c, ok := m.byName[name]; ok {
		found := *c
		return &found, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memCategoryStore) List(_ context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make([]*models.Category, 0, len(m.byName))
	for _, c := range m.byName {
		found := *c
		categories = append(categories, &found)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *memCategoryStore) Update(_ context.Context, category *models.Category) error {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, c := range m.byName {
		if c.ID != category.ID {
			continue
		}
		if other, ok := m.byName[category.Name]; ok && other.ID != category.ID {
			return repository.ErrDuplicate
		}
		delete(m.byName, name)
		updated := *category
		m.byName[category.Name] = &updated
		return nil
	}
	return repository.ErrNotFound
}

func (m *memCategoryStore) Delete(_ context.Context, id int64) error {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, c := range m.byName {
		if c.ID == id {
			delete(m.byName, name)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memCategoryStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byName)), nil
}

type memUserStore struct {
	mu     sync.Mutex
	users  []*models.User
	nextID int64
}

func (m *memUserStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	for i, u := range m.users {
		if u.ID == user.ID {
			user.UpdatedAt = time.Now()
			stored := *user
			m.users[i] = &stored
			return nil
		}
	}
	return repository.ErrNotFound
}
