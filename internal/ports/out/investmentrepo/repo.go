package investmentrepo

import (
	"context"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

// Repository stores a subject's investments. List is ordered by CreatedAt
// descending and returns the total count alongside the window.
type Repository interface {
	Create(ctx context.Context, inv domain.Investment) error
	Get(ctx context.Context, subject domain.SubjectID, id domain.InvestmentID) (domain.Investment, error)
	List(ctx context.Context, subject domain.SubjectID, offset, limit int) ([]domain.Investment, int, error)
}
