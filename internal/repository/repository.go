package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cyclesim/internal/models"
)

// Repository is the per-user order store the engine is shelled by. Orders are
// keyed by (username, order id); the engine never reads or writes storage
// directly.
type Repository interface {
	CreateOrder(ctx context.Context, item *models.Order) error
	GetOrder(ctx context.Context, username string, id uint64) (*models.Order, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, error)
	CountOrders(ctx context.Context, params ListOrdersParams) (int64, error)
	SetOrderPinned(ctx context.Context, username string, id uint64, pinned bool) error

	// ListOpenOrders returns orders whose cycle has not completed as of asOf,
	// i.e. capital still working toward the user's goal.
	ListOpenOrders(ctx context.Context, username string, asOf time.Time) ([]models.Order, error)

	ListUsernames(ctx context.Context) ([]string, error)

	InsertProjectionRecord(ctx context.Context, item *models.ProjectionRecord) error
	ListProjectionRecords(ctx context.Context, username string, limit int) ([]models.ProjectionRecord, error)
}

type ListOrdersParams struct {
	Username     string
	Pinned       *bool
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	MinPrincipal *decimal.Decimal
	MaxPrincipal *decimal.Decimal
	Limit        int
	Offset       int
	OrderBy      string
	Asc          *bool
}
