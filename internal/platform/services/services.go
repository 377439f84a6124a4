// Package services builds one API client per backend domain.
package services

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
)

// Set holds the clients of every platform service. They share a cookie jar,
// so a session opened through Identity authenticates the others.
type Set struct {
	Identity      *httpclient.Client
	Notification  *httpclient.Client
	Wallet        *httpclient.Client
	Investment    *httpclient.Client
	Accreditation *httpclient.Client

	Metrics *httpclient.Metrics
}

type Options struct {
	Logger *zap.Logger
	// Registerer receives the client metrics; nil leaves them unregistered.
	Registerer prometheus.Registerer
	// HTTPClient overrides the transport of every client.
	HTTPClient httpclient.Doer
}

func New(cfg config.ClientConfig, opts Options) (*Set, error) {
	jar, err := httpclient.NewCookieJar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	metrics := httpclient.NewMetrics("invest")
	if opts.Registerer != nil {
		if err := metrics.Register(opts.Registerer); err != nil {
			return nil, fmt.Errorf("register client metrics: %w", err)
		}
	}

	s := &Set{Metrics: metrics}
	for _, svc := range config.Services {
		c, err := httpclient.New(httpclient.Config{
			Service:    svc,
			BaseURL:    cfg.ServiceURL(svc),
			Origin:     cfg.Origin,
			HTTPClient: opts.HTTPClient,
			Jar:        jar,
			Timeout:    cfg.Timeout,
			UserAgent:  cfg.UserAgent,
			Referrer:   cfg.Referrer,
			Dedup:      cfg.DedupMode(),
			Logger:     opts.Logger,
			Metrics:    metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("%s client: %w", svc, err)
		}
		switch svc {
		case config.ServiceIdentity:
			s.Identity = c
		case config.ServiceNotification:
			s.Notification = c
		case config.ServiceWallet:
			s.Wallet = c
		case config.ServiceInvestment:
			s.Investment = c
		case config.ServiceAccreditation:
			s.Accreditation = c
		}
	}
	return s, nil
}

// Client returns the client for a service name.
func (s *Set) Client(service string) (*httpclient.Client, error) {
	var c *httpclient.Client
	switch service {
	case config.ServiceIdentity:
		c = s.Identity
	case config.ServiceNotification:
		c = s.Notification
	case config.ServiceWallet:
		c = s.Wallet
	case config.ServiceInvestment:
		c = s.Investment
	case config.ServiceAccreditation:
		c = s.Accreditation
	}
	if c == nil {
		return nil, fmt.Errorf("unknown service %q", service)
	}
	return c, nil
}
