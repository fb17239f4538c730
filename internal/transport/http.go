// Package transport exposes the HTTP surface: the MCP endpoint plus
// plain download routes for rendered documents and the ledger workbook.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ecmpro/changeledger/internal/domain/document"
	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/ecmpro/changeledger/internal/domain/ledger"
	"github.com/ecmpro/changeledger/internal/xlsx"
	"github.com/go-chi/chi/v5"
)

// LedgerSource provides the records the download routes serve.
type LedgerSource interface {
	GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error)
	List(ctx context.Context) ([]ecn.Record, error)
}

// Server wires HTTP handlers.
type Server struct {
	ledger LedgerSource
}

// NewServer creates the HTTP router. mcpHandler serves JSON-RPC posts
// to /mcp; download routes go straight to the ledger.
func NewServer(mcpHandler http.Handler, ledgerSrc LedgerSource) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{ledger: ledgerSrc}

	r.Handle("/mcp", mcpHandler)
	r.Get("/health", srv.handleHealth)
	r.Get("/records/{docNumber}/document", srv.handleDocument)
	r.Get("/ledger.xlsx", srv.handleWorkbook)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	docNumber := chi.URLParam(r, "docNumber")

	rec, err := s.ledger.GetByDocNumber(r.Context(), docNumber)
	if err != nil {
		if errors.Is(err, ledger.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	artifact := document.Render(rec)
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Content)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := xlsx.Export(records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsx.FileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
