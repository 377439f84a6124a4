package httpapi

import (
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

func (s *Server) ListInvestments(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	page, limit, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, total, err := s.Portal.ListInvestments(r.Context(), sub, page, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]wire.Investment, 0, len(items))
	for _, inv := range items {
		out = append(out, investmentToWire(inv))
	}
	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetInvestment(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	id, err := pathParam(r, "investmentId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	inv, err := s.Portal.Investment(r.Context(), sub, domain.InvestmentID(id))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, investmentToWire(inv))
}

// GetInvestmentDocument streams the raw document bytes.
func (s *Server) GetInvestmentDocument(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	id, err := pathParam(r, "investmentId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	docID, err := pathParam(r, "documentId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.Portal.InvestmentDocument(r.Context(), sub, domain.InvestmentID(id), domain.DocumentID(docID))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ct := doc.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Bytes); err != nil {
		s.logger.Debug("write document", zap.String("document_id", docID), zap.Error(err))
	}
}

func investmentToWire(inv domain.Investment) wire.Investment {
	docs := make([]wire.Document, 0, len(inv.Documents))
	for _, d := range inv.Documents {
		docs = append(docs, wire.Document{ID: string(d.ID), Name: d.Name, ContentType: d.ContentType})
	}
	return wire.Investment{
		ID:        string(inv.ID),
		ProfileID: string(inv.ProfileID),
		OfferName: inv.OfferName,
		Amount:    inv.Amount.Amount(),
		Shares:    inv.Shares,
		Status:    string(inv.Status),
		Documents: docs,
		CreatedAt: inv.CreatedAt,
	}
}
