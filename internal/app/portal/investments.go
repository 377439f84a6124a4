package portal

import (
	"context"
	"errors"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/investmentrepo"
)

func (s *Service) ListInvestments(ctx context.Context, subject domain.SubjectID, page, limit int) ([]domain.Investment, int, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, 0, err
	}
	return s.investments.List(ctx, subject, (page-1)*limit, limit)
}

func (s *Service) Investment(ctx context.Context, subject domain.SubjectID, id domain.InvestmentID) (domain.Investment, error) {
	inv, err := s.investments.Get(ctx, subject, id)
	if errors.Is(err, investmentrepo.ErrNotFound) {
		return domain.Investment{}, notFound("investment")
	}
	return inv, err
}

// InvestmentDocument returns one document attached to an investment.
func (s *Service) InvestmentDocument(ctx context.Context, subject domain.SubjectID, id domain.InvestmentID, docID domain.DocumentID) (domain.Document, error) {
	inv, err := s.Investment(ctx, subject, id)
	if err != nil {
		return domain.Document{}, err
	}
	doc, ok := inv.Document(docID)
	if !ok {
		return domain.Document{}, notFound("document")
	}
	return doc, nil
}

// AddInvestment stores inv, assigning an ID and creation time when unset.
func (s *Service) AddInvestment(ctx context.Context, inv domain.Investment) (domain.Investment, error) {
	if inv.ID == "" {
		inv.ID = domain.InvestmentID(s.newID())
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = s.clk.Now()
	}
	if inv.Status == "" {
		inv.Status = domain.InvestmentStatusStarted
	}
	return inv, s.investments.Create(ctx, inv)
}
