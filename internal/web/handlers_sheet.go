package web

import (
	"fmt"
	"net/http"

	"cypher/internal/sheet"
)

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	ch, pools, recovery, ok := s.character(w, r)
	if !ok {
		return
	}
	pdf, err := sheet.Generate(ch, pools, recovery, r.URL.Query().Get("title"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-pools.pdf"`, ch.ID))
	if _, err := w.Write(pdf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
