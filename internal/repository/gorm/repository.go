package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"cyclesim/internal/models"
	"cyclesim/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateOrder(ctx context.Context, item *models.Order) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetOrder(ctx context.Context, username string, id uint64) (*models.Order, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(username) == "" || id == 0 {
		return nil, nil
	}
	var item models.Order
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListOrders(ctx context.Context, params repository.ListOrdersParams) ([]models.Order, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrderFilters(s.db.WithContext(ctx).Model(&models.Order{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Order
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountOrders(ctx context.Context, params repository.ListOrdersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	query := applyOrderFilters(s.db.WithContext(ctx).Model(&models.Order{}), params)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyOrderFilters(query *gorm.DB, params repository.ListOrdersParams) *gorm.DB {
	if strings.TrimSpace(params.Username) != "" {
		query = query.Where("username = ?", strings.TrimSpace(params.Username))
	}
	if params.Pinned != nil {
		query = query.Where("pinned = ?", *params.Pinned)
	}
	if params.CreatedFrom != nil && !params.CreatedFrom.IsZero() {
		query = query.Where("created_at >= ?", *params.CreatedFrom)
	}
	if params.CreatedTo != nil && !params.CreatedTo.IsZero() {
		query = query.Where("created_at <= ?", *params.CreatedTo)
	}
	if params.MinPrincipal != nil {
		query = query.Where("principal >= ?", *params.MinPrincipal)
	}
	if params.MaxPrincipal != nil {
		query = query.Where("principal <= ?", *params.MaxPrincipal)
	}
	return query
}

func (s *Store) SetOrderPinned(ctx context.Context, username string, id uint64, pinned bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	if strings.TrimSpace(username) == "" || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("username = ?", username).
		Where("id = ?", id).
		Update("pinned", pinned).Error
}

func (s *Store) ListOpenOrders(ctx context.Context, username string, asOf time.Time) ([]models.Order, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	query := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at + cycle_length_days * interval '1 day' > ?", asOf)
	if strings.TrimSpace(username) != "" {
		query = query.Where("username = ?", strings.TrimSpace(username))
	}
	var items []models.Order
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListUsernames(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Distinct("username").
		Order("username asc").
		Pluck("username", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) InsertProjectionRecord(ctx context.Context, item *models.ProjectionRecord) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListProjectionRecords(ctx context.Context, username string, limit int) ([]models.ProjectionRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 50)
	query := s.db.WithContext(ctx).Model(&models.ProjectionRecord{})
	if strings.TrimSpace(username) != "" {
		query = query.Where("username = ?", strings.TrimSpace(username))
	}
	var items []models.ProjectionRecord
	if err := query.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	switch column {
	case "created_at", "principal", "maturity_value", "id":
	default:
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
