package web

import (
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/result"
)

type matchPage struct {
	PageData
	View result.View
}

// MatchEmpty handles GET /match, reached without a verdict.
func (s *Server) MatchEmpty(w http.ResponseWriter, r *http.Request) {
	s.renderMatch(w, r, result.Build(r.Context(), nil, nil))
}

// MatchPage handles GET /match/{draft}. The verdict lives on the draft
// that produced it; a missing or foreign draft shows the empty state.
func (s *Server) MatchPage(w http.ResponseWriter, r *http.Request) {
	owner := auth.SessionFrom(r.Context()).UserID()
	d, ok := s.Drafts.Get(r.PathValue("draft"), owner)
	if !ok {
		s.renderMatch(w, r, result.Build(r.Context(), nil, nil))
		return
	}
	s.renderMatch(w, r, result.Build(r.Context(), d.Verdict(), result.StoreLookup{DB: s.DB}))
}

func (s *Server) renderMatch(w http.ResponseWriter, r *http.Request, view result.View) {
	s.Templates.Render(w, "match.html", &matchPage{
		PageData: s.pageData(r, view.Title),
		View:     view,
	})
}
