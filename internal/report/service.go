// Package report implements the found-item and lost-item submission flows.
//
// A found-item submission is validated completely before anything leaves
// the process. It then normalizes and uploads the first photo, stores the
// report and asks the matching service for a verdict, in that order and
// without retries.
package report

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/erazemk/lostfound/internal/imagehost"
	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// Matcher requests a verdict for a stored item.
type Matcher interface {
	Match(ctx context.Context, itemID string) (*model.Verdict, error)
}

// Service runs submissions.
type Service struct {
	DB       *sql.DB
	Uploader imagehost.Uploader
	Matcher  Matcher
}

// NewService creates a submission service.
func NewService(db *sql.DB, uploader imagehost.Uploader, matcher Matcher) *Service {
	return &Service{DB: db, Uploader: uploader, Matcher: matcher}
}

// SubmitFound submits draft d under the given item name. On success the
// verdict is also kept on the draft and its photos are cleared; the
// picked location stays.
func (s *Service) SubmitFound(ctx context.Context, d *Draft, name string) (*model.FoundItem, *model.Verdict, error) {
	name = strings.TrimSpace(name)
	d.setName(name)

	if name == "" {
		return nil, nil, invalid("Please enter item name")
	}
	photo, ok := d.Photos.First()
	if !ok {
		return nil, nil, invalid("Please add a photo (upload or take one).")
	}
	if !d.submitting.CompareAndSwap(false, true) {
		return nil, nil, ErrSubmitInProgress
	}
	defer d.submitting.Store(false)

	loc, ok := d.Location.Location()
	if !ok {
		return nil, nil, invalid("Please choose a location")
	}

	normalized, err := imaging.Normalize(bytes.NewReader(photo.Data))
	if err != nil {
		return nil, nil, &StageError{Stage: StageUpload, Err: err}
	}

	imageURL, err := s.Uploader.Upload(ctx, d.ID+".jpg", normalized.Data)
	if err != nil {
		slog.WarnContext(ctx, "photo upload failed", "draft", d.ID, "error", err)
		return nil, nil, &StageError{Stage: StageUpload, Err: err}
	}

	item, err := store.CreateFoundItem(ctx, s.DB, store.NewFoundItem{
		Name:       name,
		ImageURL:   imageURL,
		Location:   loc,
		ReporterID: reporter(d.Owner),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create found item", "draft", d.ID, "error", err)
		return nil, nil, &StageError{Stage: StagePersist, Err: err}
	}
	slog.InfoContext(ctx, "found item reported", "item", item.ID, "name", item.Name, "reporter", d.Owner)

	verdict, err := s.Matcher.Match(ctx, item.ID)
	if err != nil {
		slog.WarnContext(ctx, "matching failed", "item", item.ID, "error", err)
		return item, nil, &StageError{Stage: StageMatch, Err: err}
	}

	d.setResult(item, verdict)
	d.Photos.Clear()

	slog.InfoContext(ctx, "found item matched", "item", item.ID, "decision", verdict.Decision)
	return item, verdict, nil
}

// LostInput is the content of a lost-item form.
type LostInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Location    string `json:"location"`
}

// SubmitLost stores a lost-item report. It makes no matching call.
func (s *Service) SubmitLost(ctx context.Context, in LostInput, reporterID int64) (*model.LostItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)
	in.Location = strings.TrimSpace(in.Location)

	if in.Name == "" {
		return nil, invalid("Please enter item name.")
	}

	item, err := store.CreateLostItem(ctx, s.DB, store.NewLostItem{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Location:    in.Location,
		ReporterID:  reporter(reporterID),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create lost item", "error", err)
		return nil, &StageError{Stage: StagePersist, Err: err}
	}

	slog.InfoContext(ctx, "lost item reported", "item", item.ID, "name", item.Name, "reporter", reporterID)
	return item, nil
}

func reporter(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
