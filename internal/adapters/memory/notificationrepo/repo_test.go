package notificationrepo

import (
	"context"
	"testing"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

func TestRepo_GetReturnsClone(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	n := domain.Notification{
		ID:        "n1",
		Subject:   "sub-1",
		Type:      domain.NotificationTypeWallet,
		Status:    domain.NotificationStatusUnread,
		Data:      map[string]any{"walletId": "w1"},
		CreatedAt: time.Unix(100, 0).UTC(),
	}
	if err := r.Create(context.Background(), n); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	got, err := r.Get(context.Background(), "sub-1", "n1")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	got.Data["walletId"] = "changed"

	again, _ := r.Get(context.Background(), "sub-1", "n1")
	if again.Data["walletId"] != "w1" {
		t.Fatalf("stored data mutated: %+v", again.Data)
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	all := []int{1, 2, 3, 4, 5}
	cases := []struct {
		offset, limit int
		want          int
	}{
		{0, 2, 2},
		{4, 2, 1},
		{5, 2, 0},
		{0, 0, 5},
		{-1, 3, 3},
	}
	for _, tc := range cases {
		if got := window(all, tc.offset, tc.limit); len(got) != tc.want {
			t.Fatalf("window(%d,%d) len=%d want=%d", tc.offset, tc.limit, len(got), tc.want)
		}
	}
}
