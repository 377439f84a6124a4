package itest

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/httpapitest"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	pgidempotency "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/idempotency"
	pgnotificationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/notificationrepo"
	postgres_testutil "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/testutil"
	pgwalletrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres/walletrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

// newTestServer starts a seeded backend. Postgres state survives between
// runs, so tests assert on deltas rather than absolute counts.
func newTestServer(t *testing.T, b backend) *httpapitest.Env {
	t.Helper()

	var opts httpapitest.Options
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		opts.Deps = portal.Deps{
			Notifications: pgnotificationrepo.NewRepo(pool),
			Wallets:       pgwalletrepo.NewRepo(pool),
		}
		opts.Idem = pgidempotency.NewStore(pool)
	case backendMemory:
	default:
		t.Fatalf("unknown backend: %s", b)
	}
	return httpapitest.Start(t, opts)
}

// browser is a set of service clients sharing one cookie jar, like the web
// app's credentials-included fetches.
type browser struct {
	jar http.CookieJar
	env *httpapitest.Env
}

func newBrowser(t *testing.T, env *httpapitest.Env) *browser {
	t.Helper()
	jar, err := httpclient.NewCookieJar()
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{jar: jar, env: env}
}

func (b *browser) client(t *testing.T, service string) *httpclient.Client {
	t.Helper()
	return b.env.Client(t, service, func(cfg *httpclient.Config) { cfg.Jar = b.jar })
}

func requireAPIError(t *testing.T, err error, wantStatus int) *httpclient.APIError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with status %d", wantStatus)
	}
	apiErr, ok := httpclient.Resolve(err)
	if !ok {
		t.Fatalf("err=%T %v, want an HTTP error", err, err)
	}
	if apiErr.StatusCode != wantStatus {
		t.Fatalf("status=%d want=%d message=%q body=%v", apiErr.StatusCode, wantStatus, apiErr.Message, apiErr.ResponseJSON)
	}
	return apiErr
}
