package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financer/internal/dto"
	"financer/internal/models"
	"financer/internal/repository"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidCategory  = errors.New("invalid category")
)

type defaultCategory struct {
	name        string
	description string
	color       string
}

var defaultCategories = []defaultCategory{
	{"Groceries", "Food and grocery shopping", "#4CAF50"},
	{"Restaurants", "Dining out and restaurants", "#FF9800"},
	{"Transportation", "Public transport, taxis, gas", "#2196F3"},
	{"Healthcare", "Medical expenses and healthcare", "#F44336"},
	{"Entertainment", "Movies, games, recreation", "#9C27B0"},
	{"Utilities", "Electricity, water, internet, phone", "#607D8B"},
	{"Shopping", "Clothing, electronics, household items", "#E91E63"},
	{"Education", "Books, courses, tuition", "#00BCD4"},
	{"Fuel", "Gas and fuel for vehicles", "#795548"},
	{"Pharmacy", "Medicine and pharmacy purchases", "#FF5722"},
	{"Coffee", "Coffee shops and cafes", "#8BC34A"},
	{"Fast Food", "Quick service restaurants", "#FFC107"},
	{"Income", "Salary and other income", "#4CAF50"},
	{"Transfer", "Money transfers and account movements", "#9E9E9E"},
	{"Other", "Uncategorized expenses", "#757575"},
}

// CategoryService manages the shared category catalogue. Lookups by name
// go through an in-process cache that only ever holds stored rows.
type CategoryService struct {
	store  CategoryStore
	cache  *ristretto.Cache
	logger *zap.Logger
}

func NewCategoryService(store CategoryStore, cacheSize int64, logger *zap.Logger) (*CategoryService, error) {
	if cacheSize <= 0 {
		cacheSize = 1000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        cacheSize * 10,
		MaxCost:            cacheSize,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category cache: %w", err)
	}

	return &CategoryService{
		store:  store,
		cache:  cache,
		logger: logger,
	}, nil
}

// FindOrCreate returns the category called name, creating it when absent.
// Safe to call concurrently for the same name.
func (s *CategoryService) FindOrCreate(ctx context.Context, name string) (*models.Category, error) {
	if cached, ok := s.cache.Get(name); ok {
		category := *cached.(*models.Category)
		return &category, nil
	}

	category, err := s.store.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		description := "Auto-created category for " + name
		category, err = s.store.CreateIfNotExists(ctx, &models.Category{
			Name:        name,
			Description: &description,
			Color:       models.DefaultCategoryColor,
		})
		if err == nil {
			s.logger.Info("Category auto-created", zap.String("name", name), zap.Int64("category_id", category.ID))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
	}

	s.remember(category)
	return category, nil
}

// SeedDefaults stores the default catalogue when no category exists yet and
// reports how many categories were seeded.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Categories already present, skipping seed", zap.Int64("count", count))
		return 0, nil
	}

	categories := make([]*models.Category, len(defaultCategories))
	for i, d := range defaultCategories {
		description := d.description
		categories[i] = &models.Category{Name: d.name, Description: &description, Color: d.color}
	}

	if err := s.store.CreateBatch(ctx, categories); err != nil {
		return 0, fmt.Errorf("failed to seed categories: %w", err)
	}

	s.logger.Info("Default categories seeded", zap.Int("count", len(categories)))
	return len(categories), nil
}

func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	color := req.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := &models.Category{Name: name, Description: req.Description, Color: color}
	if err := s.store.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.remember(category)
	return toCategoryResponse(category), nil
}

func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, *toCategoryResponse(c))
	}
	return resp, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return toCategoryResponse(category), nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	// A lookup racing the write can re-cache the old row; drop the name
	// again once the store call has returned.
	s.forget(category.Name)
	defer s.forget(category.Name)

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidCategory)
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Color != nil && *req.Color != "" {
		category.Color = *req.Color
	}

	if err := s.store.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	category, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	s.forget(category.Name)
	defer s.forget(category.Name)

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *CategoryService) Close() {
	s.cache.Close()
}

func (s *CategoryService) remember(category *models.Category) {
	cached := *category
	s.cache.Set(category.Name, &cached, 1)
	s.cache.Wait()
}

func (s *CategoryService) forget(name string) {
	s.cache.Del(name)
}

func toCategoryResponse(c *models.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   formatTimestamp(c.CreatedAt),
		UpdatedAt:   formatTimestamp(c.UpdatedAt),
	}
}
