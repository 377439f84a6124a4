package portal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/accreditationrepo"
	clockport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/clock"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/investmentrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

// Deps are the storage ports the portal services run on.
type Deps struct {
	Notifications  notificationrepo.Repository
	Wallets        walletrepo.Repository
	Investments    investmentrepo.Repository
	Accreditations accreditationrepo.Repository
	Clock          clockport.Clock
}

// Service implements the identity, notification, wallet, investment and
// accreditation use cases served by the dev backend.
type Service struct {
	notifications  notificationrepo.Repository
	wallets        walletrepo.Repository
	investments    investmentrepo.Repository
	accreditations accreditationrepo.Repository
	clk            clockport.Clock

	newID func() string

	mu        sync.RWMutex
	accounts  map[string]domain.Account // by normalized email
	bySubject map[domain.SubjectID]domain.Account
	sessions  map[string]Session
	flows     map[string]LoginFlow

	// MaxDeposit bounds a single AddFunds call.
	MaxDeposit domain.Cents
	// MaxFileSize bounds a single accreditation upload part.
	MaxFileSize int64
}

func NewService(deps Deps) *Service {
	return &Service{
		notifications:  deps.Notifications,
		wallets:        deps.Wallets,
		investments:    deps.Investments,
		accreditations: deps.Accreditations,
		clk:            deps.Clock,
		newID:          uuid.NewString,
		accounts:       make(map[string]domain.Account),
		bySubject:      make(map[domain.SubjectID]domain.Account),
		sessions:       make(map[string]Session),
		flows:          make(map[string]LoginFlow),
		MaxDeposit:     domain.CentsFromAmount(1_000_000),
		MaxFileSize:    10 << 20,
	}
}

// Now reports the service clock.
func (s *Service) Now() time.Time { return s.clk.Now() }
