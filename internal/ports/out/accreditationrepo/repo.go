package accreditationrepo

import (
	"context"
	"errors"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

// ErrNotFound indicates no accreditation has been started for the profile.
var ErrNotFound = errors.New("accreditation not found")

type Repository interface {
	Get(ctx context.Context, profileID domain.ProfileID) (domain.Accreditation, error)
	// Save creates or replaces the accreditation of a.ProfileID.
	Save(ctx context.Context, a domain.Accreditation) error
}
