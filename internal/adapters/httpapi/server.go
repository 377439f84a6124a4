package httpapi

import (
	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	clockport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/clock"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/idempotency"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Server implements the HTTP surface of the identity, notification, wallet,
// investment and accreditation services on top of portal.Service.
type Server struct {
	Portal *portal.Service
	Idem   idempotency.Store

	clk    clockport.Clock
	logger *zap.Logger

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

func NewServer(svc *portal.Service, idem idempotency.Store, clk clockport.Clock, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Portal: svc,
		Idem:   idem,
		clk:    clk,
		logger: logger,
	}
}
