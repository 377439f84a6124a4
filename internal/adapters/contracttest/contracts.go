package contracttest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	idempotencyport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/idempotency"
	notificationrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
	walletrepoport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

type CleanupFunc = func()

type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)
type NotificationRepoFactory func(t *testing.T) (notificationrepoport.Repository, CleanupFunc)
type WalletRepoFactory func(t *testing.T) (walletrepoport.Repository, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Unique per run so Postgres suites can share a database.
	sub := domain.SubjectID("sub-" + uuid.NewString())
	fp := idempotencyport.Fingerprint{
		Key:     "k-1",
		Subject: sub,
		Route:   "POST /wallet/wallets/{walletId}/fund",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		BodyHash:    "hash-abc",
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"transactionId":"t1"}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got.BodyHash != "hash-abc" || got.StatusCode != 201 || got.ContentType != "application/json" || string(got.Body) != string(rec.Body) {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("createdAt=%v want=%v", got.CreatedAt, rec.CreatedAt)
	}

	// Same key, other subject or route: independent.
	other := fp
	other.Subject = domain.SubjectID("sub-" + uuid.NewString())
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other subject: ok=%v err=%v", ok, err)
	}
	other = fp
	other.Route = "PATCH /notification/notifications/{id}"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other route: ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"transactionId":"t2"}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"transactionId":"t2"}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Reserve never replaces an existing record.
	if existing, reserved, err := store.Reserve(ctx, fp, idempotencyport.Record{BodyHash: "other", CreatedAt: time.Unix(200, 0).UTC()}); err != nil || reserved {
		t.Fatalf("Reserve existing: reserved=%v err=%v", reserved, err)
	} else if existing.Pending() || string(existing.Body) != `{"transactionId":"t2"}` {
		t.Fatalf("Reserve existing returned %+v", existing)
	}

	// A reservation is pending until Put completes it; Release frees the key.
	held := idempotencyport.Fingerprint{Key: "k-held", Subject: sub, Route: fp.Route}
	pending := idempotencyport.Record{BodyHash: "hash-held", ContentType: "application/json", CreatedAt: time.Unix(10_000, 0).UTC()}
	if _, reserved, err := store.Reserve(ctx, held, pending); err != nil || !reserved {
		t.Fatalf("Reserve: reserved=%v err=%v", reserved, err)
	}
	got, reserved, err := store.Reserve(ctx, held, pending)
	if err != nil || reserved {
		t.Fatalf("Reserve twice: reserved=%v err=%v", reserved, err)
	}
	if !got.Pending() || got.BodyHash != "hash-held" {
		t.Fatalf("expected pending reservation, got %+v", got)
	}
	if err := store.Release(ctx, held); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, ok, _ := store.Get(ctx, held); ok {
		t.Fatalf("expected released record gone")
	}
	if _, reserved, err := store.Reserve(ctx, held, pending); err != nil || !reserved {
		t.Fatalf("Reserve after release: reserved=%v err=%v", reserved, err)
	}
	done := idempotencyport.Record{BodyHash: "hash-held", StatusCode: 201, ContentType: "application/json", Body: []byte(`{}`), CreatedAt: pending.CreatedAt}
	if err := store.Put(ctx, held, done); err != nil {
		t.Fatalf("Put over reservation: %v", err)
	}
	if got, ok, err := store.Get(ctx, held); err != nil || !ok || got.Pending() {
		t.Fatalf("expected completed record, got %+v ok=%v err=%v", got, ok, err)
	}

	// Concurrent reservations of one key: exactly one wins.
	race := idempotencyport.Fingerprint{Key: idempotencyport.Key("k-race-" + uuid.NewString()), Subject: sub, Route: fp.Route}
	const racers = 8
	wins := make(chan bool, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, reserved, err := store.Reserve(ctx, race, pending)
			if err != nil {
				t.Errorf("Reserve race: %v", err)
			}
			wins <- reserved
		}()
	}
	wg.Wait()
	close(wins)
	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("concurrent Reserve winners=%d want 1", won)
	}

	// Purge drops old records only.
	fresh := idempotencyport.Fingerprint{Key: "k-2", Subject: sub, Route: fp.Route}
	if err := store.Put(ctx, fresh, idempotencyport.Record{BodyHash: "h", StatusCode: 201, ContentType: "application/json", Body: []byte("{}"), CreatedAt: time.Unix(10_000, 0).UTC()}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	if n, err := store.Purge(ctx, time.Unix(5_000, 0).UTC()); err != nil || n < 1 {
		t.Fatalf("Purge: n=%d err=%v", n, err)
	}
	if _, ok, _ := store.Get(ctx, fp); ok {
		t.Fatalf("expected old record purged")
	}
	if _, ok, _ := store.Get(ctx, fresh); !ok {
		t.Fatalf("expected fresh record kept")
	}
}

func RunNotificationRepo(t *testing.T, newRepo NotificationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	sub := domain.SubjectID("sub-" + uuid.NewString())
	otherSub := domain.SubjectID("sub-" + uuid.NewString())
	base := time.Unix(1_700_000_000, 0).UTC()

	ids := make([]domain.NotificationID, 0, 5)
	for i := 0; i < 5; i++ {
		id := domain.NotificationID(uuid.NewString())
		ids = append(ids, id)
		if err := repo.Create(ctx, domain.Notification{
			ID:        id,
			Subject:   sub,
			Type:      domain.NotificationTypeWallet,
			Status:    domain.NotificationStatusUnread,
			Content:   fmt.Sprintf("transfer %d processed", i),
			Data:      map[string]any{"walletId": "w-1"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if err := repo.Create(ctx, domain.Notification{
		ID:        domain.NotificationID(uuid.NewString()),
		Subject:   otherSub,
		Type:      domain.NotificationTypeSystem,
		Status:    domain.NotificationStatusUnread,
		Content:   "welcome",
		CreatedAt: base,
	}); err != nil {
		t.Fatalf("Create other: %v", err)
	}
	if err := repo.Create(ctx, domain.Notification{ID: ids[0], Subject: sub, Status: domain.NotificationStatusUnread, CreatedAt: base}); !errors.Is(err, notificationrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Newest first, windowed, total counts the whole subject.
	page, total, err := repo.List(ctx, sub, notificationrepoport.Page{Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(page) != 2 || page[0].ID != ids[4] || page[1].ID != ids[3] {
		t.Fatalf("List page1 total=%d ids=%v", total, notificationIDs(page))
	}
	if page[0].Data["walletId"] != "w-1" {
		t.Fatalf("data not round-tripped: %+v", page[0].Data)
	}
	page, total, err = repo.List(ctx, sub, notificationrepoport.Page{Offset: 4, Limit: 2})
	if err != nil || total != 5 || len(page) != 1 || page[0].ID != ids[0] {
		t.Fatalf("List tail total=%d ids=%v err=%v", total, notificationIDs(page), err)
	}
	page, _, err = repo.List(ctx, sub, notificationrepoport.Page{Offset: 10, Limit: 2})
	if err != nil || len(page) != 0 {
		t.Fatalf("List past end len=%d err=%v", len(page), err)
	}

	// Subject scoping.
	if _, err := repo.Get(ctx, otherSub, ids[0]); !errors.Is(err, notificationrepoport.ErrNotFound) {
		t.Fatalf("Get across subjects: %v", err)
	}
	if _, err := repo.MarkRead(ctx, otherSub, ids[0], base); !errors.Is(err, notificationrepoport.ErrNotFound) {
		t.Fatalf("MarkRead across subjects: %v", err)
	}

	readAt := base.Add(time.Hour)
	n, err := repo.MarkRead(ctx, sub, ids[2], readAt)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if n.Status != domain.NotificationStatusRead || n.ReadAt == nil || !n.ReadAt.Equal(readAt) {
		t.Fatalf("MarkRead result: %+v", n)
	}
	// Idempotent: ReadAt keeps the first timestamp.
	n, err = repo.MarkRead(ctx, sub, ids[2], readAt.Add(time.Hour))
	if err != nil || n.ReadAt == nil || !n.ReadAt.Equal(readAt) {
		t.Fatalf("MarkRead again: %+v err=%v", n, err)
	}

	if c, err := repo.CountUnread(ctx, sub); err != nil || c != 4 {
		t.Fatalf("CountUnread=%d err=%v", c, err)
	}
	changed, err := repo.MarkAllRead(ctx, sub, readAt)
	if err != nil || changed != 4 {
		t.Fatalf("MarkAllRead changed=%d err=%v", changed, err)
	}
	if c, err := repo.CountUnread(ctx, sub); err != nil || c != 0 {
		t.Fatalf("CountUnread after MarkAllRead=%d err=%v", c, err)
	}
	if c, err := repo.CountUnread(ctx, otherSub); err != nil || c != 1 {
		t.Fatalf("other subject CountUnread=%d err=%v", c, err)
	}
}

func notificationIDs(ns []domain.Notification) []domain.NotificationID {
	out := make([]domain.NotificationID, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func RunWalletRepo(t *testing.T, newRepo WalletRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1_700_000_000, 0).UTC()
	w := domain.Wallet{
		ID:        domain.WalletID(uuid.NewString()),
		ProfileID: domain.ProfileID(uuid.NewString()),
		Subject:   domain.SubjectID("sub-" + uuid.NewString()),
		Status:    domain.WalletStatusVerified,
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, w); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := w
	dup.ID = domain.WalletID(uuid.NewString())
	if err := repo.Create(ctx, dup); !errors.Is(err, walletrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for second wallet on profile, got %v", err)
	}

	got, err := repo.GetByProfile(ctx, w.ProfileID)
	if err != nil || got.ID != w.ID {
		t.Fatalf("GetByProfile=%+v err=%v", got, err)
	}
	if _, err := repo.GetByID(ctx, domain.WalletID(uuid.NewString())); !errors.Is(err, walletrepoport.ErrNotFound) {
		t.Fatalf("GetByID unknown: %v", err)
	}

	txs, err := repo.ListTransactions(ctx, w.ID)
	if err != nil || len(txs) != 0 {
		t.Fatalf("ListTransactions empty len=%d err=%v", len(txs), err)
	}

	for i, amount := range []domain.Cents{10_000, 2_500} {
		w.PendingIncoming += amount
		w.UpdatedAt = now.Add(time.Duration(i+1) * time.Minute)
		tx := domain.Transaction{
			ID:        domain.TransactionID(uuid.NewString()),
			WalletID:  w.ID,
			Type:      domain.TransactionTypeDeposit,
			Status:    domain.TransactionStatusPending,
			Amount:    amount,
			CreatedAt: w.UpdatedAt,
		}
		if err := repo.ApplyTransaction(ctx, w, tx); err != nil {
			t.Fatalf("ApplyTransaction %d: %v", i, err)
		}
	}

	got, err = repo.GetByID(ctx, w.ID)
	if err != nil || got.PendingIncoming != 12_500 {
		t.Fatalf("GetByID after transactions=%+v err=%v", got, err)
	}
	txs, err = repo.ListTransactions(ctx, w.ID)
	if err != nil || len(txs) != 2 || txs[0].Amount != 2_500 || txs[1].Amount != 10_000 {
		t.Fatalf("ListTransactions=%+v err=%v", txs, err)
	}

	ghost := w
	ghost.ID = domain.WalletID(uuid.NewString())
	if err := repo.ApplyTransaction(ctx, ghost, domain.Transaction{ID: domain.TransactionID(uuid.NewString()), WalletID: ghost.ID, CreatedAt: now}); !errors.Is(err, walletrepoport.ErrNotFound) {
		t.Fatalf("ApplyTransaction unknown wallet: %v", err)
	}
	if _, err := repo.ListTransactions(ctx, ghost.ID); !errors.Is(err, walletrepoport.ErrNotFound) {
		t.Fatalf("ListTransactions unknown wallet: %v", err)
	}
}
