package notificationrepo

import (
	"testing"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/contracttest"
	notificationrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
)

func TestContract_NotificationRepo(t *testing.T) {
	contracttest.RunNotificationRepo(t, func(t *testing.T) (notificationrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
