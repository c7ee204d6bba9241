package web

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/location"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
)

// maxUploadBytes bounds a request carrying photos.
const maxUploadBytes = 5 * imaging.MaxInputBytes

type foundPage struct {
	PageData
	DraftID  string
	Name     string
	Previews []string
	Location *model.PickedLocation
}

// FoundPage handles GET /found. It resumes the draft named in the query
// when it still exists, otherwise it starts a new one.
func (s *Server) FoundPage(w http.ResponseWriter, r *http.Request) {
	d := s.draftFor(r, r.URL.Query().Get("draft"))
	s.renderFound(w, r, d, "")
}

// FoundSubmit handles POST /found. Photos and lat/lng fields sent with
// the form are applied to the draft first, so the page works without
// JavaScript.
func (s *Server) FoundSubmit(w http.ResponseWriter, r *http.Request) {
	// The form action carries the draft id so that a body which fails to
	// parse still lands back on the same draft.
	draft := r.URL.Query().Get("draft")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	err := r.ParseMultipartForm(imaging.MaxInputBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.renderFound(w, r, s.draftFor(r, draft), "The upload is too large or malformed.")
		return
	}

	if draft == "" {
		draft = r.PostFormValue("draft")
	}
	d := s.draftFor(r, draft)

	if lat, lng := r.FormValue("lat"), r.FormValue("lng"); lat != "" || lng != "" {
		d.Location.Deliver(location.FormMessage(lat, lng))
	}
	if r.MultipartForm != nil && len(r.MultipartForm.File["photos"]) > 0 {
		photos, err := readPhotos(r.MultipartForm.File["photos"])
		if err != nil {
			s.renderFound(w, r, d, photoErrorMessage(err))
			return
		}
		d.Photos.Replace(photos...)
	}

	if _, _, err := s.Reports.SubmitFound(r.Context(), d, r.FormValue("name")); err != nil {
		s.renderFound(w, r, d, submitErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/match/"+d.ID, http.StatusSeeOther)
}

// PinSubmit handles POST /found/drafts/{id}/pin. The body is a picker
// message; the reply carries nothing.
func (s *Server) PinSubmit(w http.ResponseWriter, r *http.Request) {
	d, ok := s.ownedDraft(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4096))
	if err != nil {
		http.Error(w, "invalid message", http.StatusBadRequest)
		return
	}
	msg, err := location.ParseMessage(body)
	if err != nil {
		http.Error(w, "invalid message", http.StatusBadRequest)
		return
	}

	d.Location.Deliver(msg)
	w.WriteHeader(http.StatusNoContent)
}

// PhotosSubmit handles POST /found/drafts/{id}/photos. Both file
// selection and camera capture post here; the new photos replace the old.
func (s *Server) PhotosSubmit(w http.ResponseWriter, r *http.Request) {
	d, ok := s.ownedDraft(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxInputBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "The upload is too large or malformed.")
		return
	}

	photos, err := readPhotos(r.MultipartForm.File["photos"])
	if err != nil {
		jsonError(w, http.StatusBadRequest, photoErrorMessage(err))
		return
	}
	d.Photos.Replace(photos...)

	jsonResponse(w, http.StatusOK, map[string]any{
		"count":    len(photos),
		"previews": previewURLs(d),
	})
}

// PhotoPreview handles GET /found/drafts/{id}/photos/{n}.
func (s *Server) PhotoPreview(w http.ResponseWriter, r *http.Request) {
	d, ok := s.ownedDraft(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	photo, ok := d.Photos.Preview(n)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", photo.MIME)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(photo.Data); err != nil {
		slog.Error("failed to write preview", "error", err)
	}
}

func (s *Server) renderFound(w http.ResponseWriter, r *http.Request, d *report.Draft, errMsg string) {
	data := &foundPage{
		PageData: s.pageData(r, "Report found item"),
		DraftID:  d.ID,
		Name:     d.Name(),
		Previews: previewURLs(d),
	}
	data.Error = errMsg
	if loc, ok := d.Location.Location(); ok {
		data.Location = &loc
	}
	s.Templates.Render(w, "found.html", data)
}

func (s *Server) draftFor(r *http.Request, id string) *report.Draft {
	owner := auth.SessionFrom(r.Context()).UserID()
	if id != "" {
		if d, ok := s.Drafts.Get(id, owner); ok {
			return d
		}
	}
	return s.Drafts.Create(owner)
}

func (s *Server) ownedDraft(r *http.Request) (*report.Draft, bool) {
	return s.Drafts.Get(r.PathValue("id"), auth.SessionFrom(r.Context()).UserID())
}

func previewURLs(d *report.Draft) []string {
	urls := make([]string, d.Photos.Len())
	for i := range urls {
		urls[i] = "/found/drafts/" + d.ID + "/photos/" + strconv.Itoa(i)
	}
	return urls
}

func readPhotos(files []*multipart.FileHeader) ([]report.Photo, error) {
	photos := make([]report.Photo, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		p, err := report.ReadPhoto(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func photoErrorMessage(err error) string {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return "That photo is too large (10 MB at most)."
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return "Photos must be JPEG, PNG or WebP images."
	}
	return "The photo could not be read."
}

func submitErrorMessage(err error) string {
	var verr *report.ValidationError
	var serr *report.StageError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, report.ErrSubmitInProgress):
		return "This report is already being submitted."
	case errors.As(err, &serr):
		return serr.Error()
	}
	slog.Error("unexpected submit error", "error", err)
	return "Something went wrong. Please try again."
}
