package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type generateDocumentRequest struct {
	Kind types.DocumentKind `json:"kind"`
}

func documentIDParam(r *http.Request) types.DocumentID {
	return types.DocumentID(chi.URLParam(r, "documentID"))
}

func (s *Server) listDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := s.uc.Document.ListDocuments(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"documents": toDocumentResponses(docs)})
}

func (s *Server) generateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req generateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	doc, err := s.uc.Document.GenerateDocument(r.Context(), projectIDParam(r), req.Kind)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toDocumentResponse(doc))
}

func (s *Server) getDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := s.uc.Document.GetDocument(r.Context(), projectIDParam(r), documentIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

// diffDocumentsHandler compares ?from= with the path document. Without from, the previous revision is used.
func (s *Server) diffDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	from := types.DocumentID(r.URL.Query().Get("from"))

	diff, err := s.uc.Document.DiffDocuments(r.Context(), projectIDParam(r), from, documentIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, diff)
}
