package portal

import (
	"context"
	"errors"
	"testing"
	"time"

	memaccreditationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/accreditationrepo"
	memclock "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/clock"
	meminvestmentrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/investmentrepo"
	memnotificationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notificationrepo"
	memwalletrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/walletrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	svc := NewService(Deps{
		Notifications:  memnotificationrepo.NewRepo(),
		Wallets:        memwalletrepo.NewRepo(),
		Investments:    meminvestmentrepo.NewRepo(),
		Accreditations: memaccreditationrepo.NewRepo(),
		Clock:          clk,
	})
	return svc, clk
}

func wantError(t *testing.T, err error, status int, code string) *Error {
	t.Helper()
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != status || ae.Code != code {
		t.Fatalf("err=%v (type=%T), want %s %d", err, err, code, status)
	}
	return ae
}

func addAlice(t *testing.T, svc *Service) domain.Account {
	t.Helper()
	a := domain.Account{Subject: "sub-alice", Email: " Alice@Example.com ", Password: "secret", ProfileID: "p-alice"}
	if err := svc.AddAccount(a); err != nil {
		t.Fatalf("AddAccount err=%v", err)
	}
	got, ok := svc.Account("sub-alice")
	if !ok {
		t.Fatalf("account not stored")
	}
	return got
}

func TestService_Login_HappyPath(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	acct := addAlice(t, svc)
	if acct.Email != "alice@example.com" {
		t.Fatalf("email=%q", acct.Email)
	}
	ctx := context.Background()

	flow := svc.CreateLoginFlow(ctx)
	sess, err := svc.SubmitLogin(ctx, flow.ID, "ALICE@example.com", "secret")
	if err != nil {
		t.Fatalf("SubmitLogin err=%v", err)
	}
	if !sess.Active || sess.Identity.Subject != "sub-alice" {
		t.Fatalf("sess=%+v", sess)
	}

	who, err := svc.WhoAmI(ctx, sess.ID)
	if err != nil || who.ID != sess.ID {
		t.Fatalf("WhoAmI=%+v err=%v", who, err)
	}
	if sub, ok := svc.SubjectForSession(sess.ID); !ok || sub != "sub-alice" {
		t.Fatalf("SubjectForSession=%q ok=%v", sub, ok)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("Logout err=%v", err)
	}
	_, err = svc.WhoAmI(ctx, sess.ID)
	wantError(t, err, 401, CodeUnauthorized)

	// The flow is consumed by a successful login.
	_, err = svc.GetLoginFlow(ctx, flow.ID)
	wantError(t, err, 404, CodeNotFound)
}

func TestService_Login_Errors(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	addAlice(t, svc)
	ctx := context.Background()
	flow := svc.CreateLoginFlow(ctx)

	_, err := svc.SubmitLogin(ctx, flow.ID, "alice@example.com", "wrong")
	wantError(t, err, 400, CodeInvalidCredentials)

	_, err = svc.SubmitLogin(ctx, flow.ID, "", "secret")
	ae := wantError(t, err, 400, CodeValidation)
	if _, ok := ae.Details["identifier"]; !ok {
		t.Fatalf("details=%v", ae.Details)
	}

	_, err = svc.SubmitLogin(ctx, "nope", "alice@example.com", "secret")
	wantError(t, err, 404, CodeNotFound)

	clk.Advance(loginFlowTTL)
	_, err = svc.SubmitLogin(ctx, flow.ID, "alice@example.com", "secret")
	wantError(t, err, 410, CodeFlowExpired)
}

func TestService_AddAccount_Duplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	addAlice(t, svc)
	err := svc.AddAccount(domain.Account{Email: "alice@example.com", Password: "x"})
	wantError(t, err, 409, "ACCOUNT_EXISTS")

	err = svc.AddAccount(domain.Account{Email: "not-an-email"})
	wantError(t, err, 400, CodeValidation)
}

func TestService_SessionExpires(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	addAlice(t, svc)
	ctx := context.Background()
	sess, err := svc.SubmitLogin(ctx, svc.CreateLoginFlow(ctx).ID, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("SubmitLogin err=%v", err)
	}
	clk.Advance(sessionTTL)
	if _, ok := svc.SubjectForSession(sess.ID); ok {
		t.Fatalf("expected expired session")
	}
}

func TestService_Notifications(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")

	var ids []domain.NotificationID
	for i := 0; i < 5; i++ {
		n, err := svc.Publish(ctx, sub, domain.NotificationTypeSystem, "hello", nil)
		if err != nil {
			t.Fatalf("Publish err=%v", err)
		}
		ids = append(ids, n.ID)
		clk.Advance(time.Minute)
	}

	items, total, err := svc.ListNotifications(ctx, sub, 2, 2)
	if err != nil {
		t.Fatalf("ListNotifications err=%v", err)
	}
	if total != 5 || len(items) != 2 || items[0].ID != ids[2] {
		t.Fatalf("total=%d items=%+v", total, items)
	}

	_, _, err = svc.ListNotifications(ctx, sub, 0, 10)
	wantError(t, err, 400, CodeValidation)
	_, _, err = svc.ListNotifications(ctx, sub, 1, 101)
	wantError(t, err, 400, CodeValidation)

	at := time.Unix(42, 0).UTC()
	n, err := svc.MarkNotificationRead(ctx, sub, ids[0], &at)
	if err != nil {
		t.Fatalf("MarkNotificationRead err=%v", err)
	}
	if n.Status != domain.NotificationStatusRead || n.ReadAt == nil || !n.ReadAt.Equal(at) {
		t.Fatalf("n=%+v", n)
	}
	_, err = svc.MarkNotificationRead(ctx, "other", ids[1], nil)
	wantError(t, err, 404, CodeNotFound)

	unread, err := svc.UnreadCount(ctx, sub)
	if err != nil || unread != 4 {
		t.Fatalf("unread=%d err=%v", unread, err)
	}
	changed, err := svc.MarkAllNotificationsRead(ctx, sub)
	if err != nil || changed != 4 {
		t.Fatalf("changed=%d err=%v", changed, err)
	}
}

func seedWallet(t *testing.T, svc *Service, status domain.WalletStatus) domain.Wallet {
	t.Helper()
	w := domain.Wallet{ID: "w-1", ProfileID: "p-alice", Subject: "sub-alice", Status: status, Currency: "USD", CurrentBalance: 500}
	if err := svc.wallets.Create(context.Background(), w); err != nil {
		t.Fatalf("Create wallet err=%v", err)
	}
	return w
}

func TestService_AddFunds(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, domain.WalletStatusVerified)

	tx, err := svc.AddFunds(ctx, "sub-alice", w.ID, domain.CentsFromAmount(12.34))
	if err != nil {
		t.Fatalf("AddFunds err=%v", err)
	}
	if tx.Amount != 1234 || tx.Status != domain.TransactionStatusPending || tx.Type != domain.TransactionTypeDeposit {
		t.Fatalf("tx=%+v", tx)
	}

	got, err := svc.WalletByProfile(ctx, "sub-alice", "p-alice")
	if err != nil {
		t.Fatalf("WalletByProfile err=%v", err)
	}
	if got.PendingIncoming != 1234 || got.CurrentBalance != 500 {
		t.Fatalf("wallet=%+v", got)
	}

	txs, err := svc.ListTransactions(ctx, "sub-alice", w.ID)
	if err != nil || len(txs) != 1 || txs[0].ID != tx.ID {
		t.Fatalf("txs=%+v err=%v", txs, err)
	}

	unread, _ := svc.UnreadCount(ctx, "sub-alice")
	if unread != 1 {
		t.Fatalf("unread=%d, want deposit notification", unread)
	}
}

func TestService_AddFunds_Rejections(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, domain.WalletStatusCreated)

	_, err := svc.AddFunds(ctx, "sub-alice", w.ID, 0)
	wantError(t, err, 400, CodeValidation)

	_, err = svc.AddFunds(ctx, "sub-alice", w.ID, svc.MaxDeposit+1)
	wantError(t, err, 422, CodeLimitExceeded)

	_, err = svc.AddFunds(ctx, "sub-alice", w.ID, 100)
	wantError(t, err, 409, CodeWalletNotVerified)

	_, err = svc.AddFunds(ctx, "sub-bob", w.ID, 100)
	wantError(t, err, 404, CodeNotFound)

	_, err = svc.WalletByProfile(ctx, "sub-bob", "p-alice")
	wantError(t, err, 404, CodeNotFound)
}

func TestService_Investments(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddInvestment(ctx, domain.Investment{
			Subject:   "sub-alice",
			OfferName: "Offer",
			Amount:    1000,
			Documents: []domain.Document{{ID: "doc-1", Name: "agreement.pdf", ContentType: "application/pdf", Bytes: []byte("%PDF-1.4")}},
		})
		if err != nil {
			t.Fatalf("AddInvestment err=%v", err)
		}
		clk.Advance(time.Hour)
	}

	items, total, err := svc.ListInvestments(ctx, "sub-alice", 1, 2)
	if err != nil || total != 3 || len(items) != 2 {
		t.Fatalf("items=%d total=%d err=%v", len(items), total, err)
	}
	if items[0].Status != domain.InvestmentStatusStarted {
		t.Fatalf("status=%q", items[0].Status)
	}

	doc, err := svc.InvestmentDocument(ctx, "sub-alice", items[0].ID, "doc-1")
	if err != nil || string(doc.Bytes) != "%PDF-1.4" {
		t.Fatalf("doc=%+v err=%v", doc, err)
	}
	_, err = svc.InvestmentDocument(ctx, "sub-alice", items[0].ID, "doc-2")
	wantError(t, err, 404, CodeNotFound)
	_, err = svc.Investment(ctx, "sub-bob", items[0].ID)
	wantError(t, err, 404, CodeNotFound)
}

func TestService_Accreditation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	addAlice(t, svc)
	ctx := context.Background()

	st, err := svc.AccreditationStatus(ctx, "sub-alice", "p-alice")
	if err != nil || st.Status != domain.AccreditationStatusNew {
		t.Fatalf("status=%+v err=%v", st, err)
	}

	_, err = svc.UploadAccreditation(ctx, "sub-alice", "p-alice", "", nil)
	wantError(t, err, 400, CodeValidation)

	ae := func() *Error {
		_, err := svc.UploadAccreditation(ctx, "sub-alice", "p-alice", "", []domain.AccreditationFile{
			{Name: "a.exe", ContentType: "application/octet-stream", Size: 10},
			{Name: "big.pdf", ContentType: "application/pdf", Size: svc.MaxFileSize + 1},
		})
		return wantError(t, err, 400, CodeValidation)
	}()
	if len(ae.Details) != 2 {
		t.Fatalf("details=%v", ae.Details)
	}

	a, err := svc.UploadAccreditation(ctx, "sub-alice", "p-alice", "w2 attached", []domain.AccreditationFile{
		{Name: "w2.pdf", ContentType: "application/pdf; charset=binary", Size: 2048},
	})
	if err != nil {
		t.Fatalf("UploadAccreditation err=%v", err)
	}
	if a.Status != domain.AccreditationStatusPending || len(a.Files) != 1 {
		t.Fatalf("a=%+v", a)
	}

	_, err = svc.AccreditationStatus(ctx, "sub-bob", "p-alice")
	wantError(t, err, 404, CodeNotFound)
}
