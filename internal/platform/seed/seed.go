// Package seed loads development fixtures into the portal service.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Accounts      []Account      `yaml:"accounts"`
	Wallets       []Wallet       `yaml:"wallets"`
	Notifications []Notification `yaml:"notifications"`
	Investments   []Investment   `yaml:"investments"`
}

type Account struct {
	Subject   string `yaml:"subject"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	ProfileID string `yaml:"profile_id"`
}

type Wallet struct {
	ID        string  `yaml:"id"`
	ProfileID string  `yaml:"profile_id"`
	Subject   string  `yaml:"subject"`
	Status    string  `yaml:"status"`
	Currency  string  `yaml:"currency"`
	Balance   float64 `yaml:"balance"`
}

type Notification struct {
	Subject string         `yaml:"subject"`
	Type    string         `yaml:"type"`
	Content string         `yaml:"content"`
	Data    map[string]any `yaml:"data"`
	Read    bool           `yaml:"read"`
}

type Investment struct {
	ID        string     `yaml:"id"`
	Subject   string     `yaml:"subject"`
	ProfileID string     `yaml:"profile_id"`
	Offer     string     `yaml:"offer"`
	Amount    float64    `yaml:"amount"`
	Shares    int64      `yaml:"shares"`
	Status    string     `yaml:"status"`
	Documents []Document `yaml:"documents"`
}

type Document struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Load reads the fixture at path, or the embedded default when path is empty.
func Load(path string) (Fixture, error) {
	raw := defaultFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Fixture{}, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a fixture, rejecting unknown keys.
func Parse(raw []byte) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("decode seed: %w", err)
	}
	return f, nil
}

// Apply loads f into svc. Notifications and investments are backdated in file
// order, one step apart, so the last entry of each list is the newest.
func Apply(ctx context.Context, svc *portal.Service, f Fixture) error {
	now := svc.Now()
	for _, a := range f.Accounts {
		err := svc.AddAccount(domain.Account{
			Subject:   domain.SubjectID(a.Subject),
			Email:     a.Email,
			Password:  a.Password,
			FirstName: domain.NormalizeHumanName(a.FirstName),
			LastName:  domain.NormalizeHumanName(a.LastName),
			ProfileID: domain.ProfileID(a.ProfileID),
		})
		if err != nil {
			return fmt.Errorf("seed account %s: %w", a.Email, err)
		}
	}
	// Persistent storage keeps wallets and notifications across restarts; an
	// existing wallet means they were seeded by an earlier run.
	reseed := false
	for _, w := range f.Wallets {
		_, err := svc.AddWallet(ctx, domain.Wallet{
			ID:             domain.WalletID(w.ID),
			ProfileID:      domain.ProfileID(w.ProfileID),
			Subject:        domain.SubjectID(w.Subject),
			Status:         domain.WalletStatus(w.Status),
			Currency:       w.Currency,
			CurrentBalance: domain.CentsFromAmount(w.Balance),
		})
		var pe *portal.Error
		if errors.As(err, &pe) && pe.Code == portal.CodeWalletExists {
			reseed = true
			continue
		}
		if err != nil {
			return fmt.Errorf("seed wallet %s: %w", w.ID, err)
		}
	}
	for i, n := range f.Notifications {
		if reseed {
			break
		}
		created, err := svc.PublishNotification(ctx, domain.Notification{
			Subject:   domain.SubjectID(n.Subject),
			Type:      domain.NotificationType(n.Type),
			Content:   n.Content,
			Data:      n.Data,
			CreatedAt: now.Add(-time.Duration(len(f.Notifications)-i) * time.Minute),
		})
		if err != nil {
			return fmt.Errorf("seed notification %d: %w", i, err)
		}
		if n.Read {
			if _, err := svc.MarkNotificationRead(ctx, created.Subject, created.ID, nil); err != nil {
				return fmt.Errorf("seed notification %d: %w", i, err)
			}
		}
	}
	for i, inv := range f.Investments {
		docs := make([]domain.Document, 0, len(inv.Documents))
		for _, d := range inv.Documents {
			docs = append(docs, domain.Document{
				ID:          domain.DocumentID(d.ID),
				Name:        d.Name,
				ContentType: "application/pdf",
				Bytes:       PlaceholderPDF(d.Name),
			})
		}
		_, err := svc.AddInvestment(ctx, domain.Investment{
			ID:        domain.InvestmentID(inv.ID),
			Subject:   domain.SubjectID(inv.Subject),
			ProfileID: domain.ProfileID(inv.ProfileID),
			OfferName: inv.Offer,
			Amount:    domain.CentsFromAmount(inv.Amount),
			Shares:    inv.Shares,
			Status:    domain.InvestmentStatus(inv.Status),
			Documents: docs,
			CreatedAt: now.Add(-time.Duration(len(f.Investments)-i) * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("seed investment %s: %w", inv.ID, err)
		}
	}
	return nil
}

// PlaceholderPDF renders a single-page PDF showing title.
func PlaceholderPDF(title string) []byte {
	stream := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", pdfEscape(title))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func pdfEscape(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
