package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/erazemk/lostfound/internal/imaging"
)

// Photo is an image as the user supplied it, before normalization.
type Photo struct {
	Data []byte
	MIME string
}

// ReadPhoto reads one uploaded or captured image and checks it is a
// format the server can decode.
func ReadPhoto(r io.Reader) (Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxInputBytes+1))
	if err != nil {
		return Photo{}, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > imaging.MaxInputBytes {
		return Photo{}, imaging.ErrTooLarge
	}
	mime, ok := imaging.Sniff(data)
	if !ok {
		return Photo{}, fmt.Errorf("%w: %s", imaging.ErrUnsupportedFormat, mime)
	}
	return Photo{Data: data, MIME: mime}, nil
}

// PhotoSet is the list of photos attached to a draft. File selection and
// camera capture both replace the whole set.
type PhotoSet struct {
	mu     sync.Mutex
	photos []Photo
}

// Replace discards the current photos and keeps ps.
func (s *PhotoSet) Replace(ps ...Photo) {
	s.mu.Lock()
	s.photos = append([]Photo(nil), ps...)
	s.mu.Unlock()
}

// First returns the photo that is uploaded on submit.
func (s *PhotoSet) First() (Photo, bool) {
	return s.Preview(0)
}

// Preview returns photo n for display.
func (s *PhotoSet) Preview(n int) (Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n >= len(s.photos) {
		return Photo{}, false
	}
	return s.photos[n], true
}

func (s *PhotoSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.photos)
}

func (s *PhotoSet) Clear() {
	s.Replace()
}
