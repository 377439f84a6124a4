package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
)

// Backend service names, also used as URL path prefixes under API_ORIGIN.
const (
	ServiceIdentity      = "identity"
	ServiceNotification  = "notification"
	ServiceWallet        = "wallet"
	ServiceInvestment    = "investment"
	ServiceAccreditation = "accreditation"
)

var Services = []string{ServiceIdentity, ServiceNotification, ServiceWallet, ServiceInvestment, ServiceAccreditation}

// ClientConfig configures the API client set.
type ClientConfig struct {
	// Origin is the fallback for services without their own URL; the service
	// name is appended as a path prefix.
	Origin string `env:"API_ORIGIN,default=http://localhost:8080"`

	IdentityURL      string `env:"IDENTITY_API_URL"`
	NotificationURL  string `env:"NOTIFICATION_API_URL"`
	WalletURL        string `env:"WALLET_API_URL"`
	InvestmentURL    string `env:"INVESTMENT_API_URL"`
	AccreditationURL string `env:"ACCREDITATION_API_URL"`

	Timeout   time.Duration `env:"API_TIMEOUT,default=30s"`
	UserAgent string        `env:"API_USER_AGENT,default=investctl"`
	Referrer  string        `env:"API_REFERRER"`
	Dedup     string        `env:"API_DEDUP,default=request"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
	LogFile  string `env:"LOG_FILE"`
}

func LoadClientConfig() (ClientConfig, error) {
	var cfg ClientConfig
	if err := decode(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func (c ClientConfig) Validate() error {
	if err := checkAbsoluteURL("API_ORIGIN", c.Origin); err != nil {
		return err
	}
	for _, svc := range Services {
		if u := c.explicitURL(svc); u != "" {
			if err := checkAbsoluteURL(strings.ToUpper(svc)+"_API_URL", u); err != nil {
				return err
			}
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if _, ok := httpclient.ParseDedupMode(c.Dedup); !ok {
		return fmt.Errorf("API_DEDUP must be one of request|path|off, got %q", c.Dedup)
	}
	return oneOf("LOG_LEVEL", c.LogLevel, "debug", "info", "warn", "error")
}

func (c ClientConfig) explicitURL(service string) string {
	switch service {
	case ServiceIdentity:
		return c.IdentityURL
	case ServiceNotification:
		return c.NotificationURL
	case ServiceWallet:
		return c.WalletURL
	case ServiceInvestment:
		return c.InvestmentURL
	case ServiceAccreditation:
		return c.AccreditationURL
	default:
		return ""
	}
}

// ServiceURL is the base URL for service: its own variable when set, else
// API_ORIGIN/<service>.
func (c ClientConfig) ServiceURL(service string) string {
	if u := c.explicitURL(service); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return strings.TrimSuffix(c.Origin, "/") + "/" + service
}

func (c ClientConfig) DedupMode() httpclient.DedupMode {
	m, _ := httpclient.ParseDedupMode(c.Dedup)
	return m
}
