package web

import (
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/report"
)

type lostPage struct {
	PageData
	Form report.LostInput
}

// LostPage handles GET /lost.
func (s *Server) LostPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "lost.html", &lostPage{PageData: s.pageData(r, "Report lost item")})
}

// LostSubmit handles POST /lost.
func (s *Server) LostSubmit(w http.ResponseWriter, r *http.Request) {
	in := report.LostInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Color:       r.FormValue("color"),
		Location:    r.FormValue("location"),
	}
	data := &lostPage{PageData: s.pageData(r, "Report lost item")}

	_, err := s.Reports.SubmitLost(r.Context(), in, auth.SessionFrom(r.Context()).UserID())
	if err != nil {
		data.Error = submitErrorMessage(err)
		data.Form = in
		s.Templates.Render(w, "lost.html", data)
		return
	}

	data.Success = "Submitted. We will let you know if someone finds it."
	s.Templates.Render(w, "lost.html", data)
}
