package form

import (
	"encoding/json"
	"fmt"

	"recruit/internal/domain/application"
)

// DraftStore persists in-progress form data between sessions. Load reports
// ok=false when no draft exists for the key.
type DraftStore interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Clear(key string) error
}

// Store holds the working copy of one track's application form and writes a
// draft after every mutation. Drafts are keyed per track so switching tracks
// never mixes field values.
type Store struct {
	track  string
	drafts DraftStore
	data   application.FormData
}

// DraftKey returns the per-track draft key.
func DraftKey(track string) string {
	return fmt.Sprintf("likelion-14th-%s-form", track)
}

// NewStore creates a form store for track, restoring a saved draft when one
// exists. A corrupt draft is discarded rather than blocking the form.
// PRE: track is a valid track
func NewStore(track string, drafts DraftStore) (*Store, error) {
	if !application.ValidTrack(track) {
		return nil, application.ErrInvalidTrack
	}
	s := &Store{track: track, drafts: drafts}

	raw, ok, err := drafts.Load(DraftKey(track))
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			drafts.Clear(DraftKey(track))
			s.data = application.FormData{}
		}
	}
	return s, nil
}

// Track returns the fixed track this store edits.
func (s *Store) Track() string { return s.track }

// Form returns the current working copy.
func (s *Store) Form() application.FormData { return s.data }

// Update applies a mutation to the working copy and persists the draft.
func (s *Store) Update(mutate func(*application.FormData)) error {
	mutate(&s.data)
	return s.saveDraft()
}

// AddActivity appends an empty activity entry.
func (s *Store) AddActivity() error {
	return s.Update(func(f *application.FormData) {
		f.Activities = append(f.Activities, "")
	})
}

// SetActivity replaces the activity at index i.
// POST: out-of-range indexes are ignored
func (s *Store) SetActivity(i int, value string) error {
	return s.Update(func(f *application.FormData) {
		if i >= 0 && i < len(f.Activities) {
			f.Activities[i] = value
		}
	})
}

// RemoveActivity deletes the activity at index i, keeping order.
// POST: out-of-range indexes are ignored; the last entry may be removed
func (s *Store) RemoveActivity(i int) error {
	return s.Update(func(f *application.FormData) {
		if i >= 0 && i < len(f.Activities) {
			f.Activities = append(f.Activities[:i], f.Activities[i+1:]...)
		}
	})
}

// ToggleInterviewDate adds date to the selection, or removes it when
// already selected. Dates outside the offered set are ignored.
func (s *Store) ToggleInterviewDate(date string) error {
	if !offeredDate(date) {
		return nil
	}
	return s.Update(func(f *application.FormData) {
		for i, d := range f.InterviewDates {
			if d == date {
				f.InterviewDates = append(f.InterviewDates[:i], f.InterviewDates[i+1:]...)
				return
			}
		}
		f.InterviewDates = append(f.InterviewDates, date)
	})
}

func offeredDate(date string) bool {
	for _, d := range application.OfferedInterviewDates {
		if d == date {
			return true
		}
	}
	return false
}

// Validate runs the track's field validation over the working copy.
func (s *Store) Validate() map[string]string {
	return application.Validate(s.track, s.data)
}

// ClearDraft removes the persisted draft and resets the working copy.
func (s *Store) ClearDraft() error {
	s.data = application.FormData{}
	return s.drafts.Clear(DraftKey(s.track))
}

func (s *Store) saveDraft() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.drafts.Save(DraftKey(s.track), raw); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
