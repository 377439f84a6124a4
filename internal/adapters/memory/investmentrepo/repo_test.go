package investmentrepo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/investmentrepo"
)

func TestRepo_ListPagesNewestFirst(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	base := time.Unix(1000, 0).UTC()
	for i := 0; i < 5; i++ {
		if err := r.Create(ctx, domain.Investment{
			ID:        domain.InvestmentID(fmt.Sprintf("inv-%d", i)),
			Subject:   "sub-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create err=%v", err)
		}
	}
	if err := r.Create(ctx, domain.Investment{ID: "other", Subject: "sub-2", CreatedAt: base}); err != nil {
		t.Fatalf("Create other err=%v", err)
	}

	got, total, err := r.List(ctx, "sub-1", 0, 2)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if total != 5 || len(got) != 2 || got[0].ID != "inv-4" || got[1].ID != "inv-3" {
		t.Fatalf("List total=%d got=%+v", total, got)
	}

	got, total, err = r.List(ctx, "sub-1", 4, 2)
	if err != nil || total != 5 || len(got) != 1 || got[0].ID != "inv-0" {
		t.Fatalf("List tail total=%d got=%+v err=%v", total, got, err)
	}
}

func TestRepo_GetScopedToSubject(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	inv := domain.Investment{
		ID:      "inv-1",
		Subject: "sub-1",
		Documents: []domain.Document{
			{ID: "doc-1", Name: "agreement.pdf", ContentType: "application/pdf", Bytes: []byte("%PDF")},
		},
	}
	if err := r.Create(ctx, inv); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := r.Create(ctx, inv); !errors.Is(err, investmentrepo.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v", err)
	}
	if _, err := r.Get(ctx, "sub-2", "inv-1"); !errors.Is(err, investmentrepo.ErrNotFound) {
		t.Fatalf("Get other subject err=%v", err)
	}
	got, err := r.Get(ctx, "sub-1", "inv-1")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	doc, ok := got.Document("doc-1")
	if !ok || string(doc.Bytes) != "%PDF" {
		t.Fatalf("Document=%+v ok=%v", doc, ok)
	}
}
