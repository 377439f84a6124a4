package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	memaccreditationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/accreditationrepo"
	memidempotency "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/idempotency"
	meminvestmentrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/investmentrepo"
	memnotificationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notificationrepo"
	memwalletrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/walletrepo"
	postgres "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres"
	pgidempotency "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/idempotency"
	pgnotificationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/notificationrepo"
	pgwalletrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/walletrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
	accreditationrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/accreditationrepo"
	idempotencyport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/idempotency"
	investmentrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/investmentrepo"
	notificationrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
	walletrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

// storage bundles the repositories for one STORAGE_BACKEND. Investments and
// accreditation reviews are fixture-driven and always live in memory.
type storage struct {
	Notifications  notificationrepoport.Repository
	Wallets        walletrepoport.Repository
	Investments    investmentrepoport.Repository
	Accreditations accreditationrepoport.Repository
	Idempotency    idempotencyport.Store

	close func()
}

func (s storage) Close() {
	if s.close != nil {
		s.close()
	}
}

func openStorage(ctx context.Context, cfg config.BackendConfig, logger *zap.Logger) (storage, error) {
	s := storage{
		Investments:    meminvestmentrepo.NewRepo(),
		Accreditations: memaccreditationrepo.NewRepo(),
	}
	switch cfg.Storage {
	case config.StoragePostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return storage{}, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return storage{}, fmt.Errorf("invalid postgres config: %w", err)
		}
		logger.Info("postgres storage ready")
		s.Notifications = pgnotificationrepo.NewRepo(pool)
		s.Wallets = pgwalletrepo.NewRepo(pool)
		s.Idempotency = pgidempotency.NewStore(pool)
		s.close = pool.Close
	default:
		s.Notifications = memnotificationrepo.NewRepo()
		s.Wallets = memwalletrepo.NewRepo()
		s.Idempotency = memidempotency.NewStore()
	}
	return s, nil
}
