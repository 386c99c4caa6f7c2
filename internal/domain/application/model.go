package application

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Track constants. The track is fixed at creation and never mutated.
const (
	TrackBaby  = "baby"
	TrackStaff = "staff"
)

// Interest field values for the baby track.
const (
	InterestFrontend = "frontend"
	InterestBackend  = "backend"
	InterestDesign   = "design"
	InterestUnsure   = "unsure"
)

// Position values for the staff track.
const (
	PositionPlanning = "planning"
	PositionFrontend = "frontend"
	PositionBackend  = "backend"
	PositionDesign   = "design"
)

// Coding experience values (baby track, optional field).
const (
	ExperienceNone    = "none"
	ExperienceClass   = "class"
	ExperienceProject = "project"
)

// OfferedInterviewDates is the fixed set of interview dates applicants may select.
var OfferedInterviewDates = []string{"2월 22일(토)", "2월 23일(일)"}

// Domain errors.
var (
	ErrInvalidTrack = errors.New("invalid track")
	ErrReadOnly     = errors.New("applications are read-only and cannot be modified")
	ErrNotFound     = errors.New("application not found")
	ErrMalformedID  = errors.New("malformed application id")
)

// FormData is the applicant-entered record. Both tracks share the common
// fields; interestField/codingExperience belong to baby, position/techStack/
// portfolio to staff. The validator enforces the per-track required set.
type FormData struct {
	Name           string   `json:"name"`
	StudentID      string   `json:"studentId"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Major          string   `json:"major"`
	DoubleMajor    string   `json:"doubleMajor,omitempty"`
	CurrentYear    string   `json:"currentYear"`
	Schedule1      string   `json:"schedule1"`
	Schedule2      string   `json:"schedule2"`
	Schedule3      string   `json:"schedule3"`
	InterviewDates []string `json:"interviewDates"`
	Activities     []string `json:"activities"`

	InterestField    string `json:"interestField,omitempty"`
	CodingExperience string `json:"codingExperience,omitempty"`

	Position  string `json:"position,omitempty"`
	TechStack string `json:"techStack,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`

	Essay1 string `json:"essay1"`
	Essay2 string `json:"essay2"`
	Essay3 string `json:"essay3"`
}

// Application is the only durable entity. Once stored it may be deleted but
// never partially updated.
type Application struct {
	ID          string    `json:"id"`
	Track       string    `json:"track"`
	Form        FormData  `json:"formData"`
	SubmittedAt time.Time `json:"submittedAt"`

	// Sealed holds the at-rest form payload; it is never serialized and is
	// cleared before an Application leaves the admin listing path.
	Sealed []byte `json:"-"`

	// IPAddress is captured for rate limiting and never exposed beyond storage.
	IPAddress string `json:"-"`
}

// ValidationError carries the full field-to-message map from Validate.
// The HTTP layer serves it as a 400; the client annotates inputs with it.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the failing field names in stable order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid application: " + strings.Join(names, ", ")
}

// ValidTrack reports whether t is one of the two applicant tracks.
func ValidTrack(t string) bool {
	return t == TrackBaby || t == TrackStaff
}

// NewID builds an application identifier in the form
// {track}-{epochMillis}-{token}. The track is decodable from the prefix.
// PRE: track is a valid track, token is non-empty
// POST: returned id parses back via TrackFromID
func NewID(track string, at time.Time, token string) string {
	return fmt.Sprintf("%s-%d-%s", track, at.UnixMilli(), token)
}

// TrackFromID decodes the track from an identifier's prefix.
// POST: returns the track, or ErrMalformedID if the prefix is unknown
func TrackFromID(id string) (string, error) {
	track, rest, ok := strings.Cut(id, "-")
	if !ok || !ValidTrack(track) {
		return "", ErrMalformedID
	}
	millis, _, _ := strings.Cut(rest, "-")
	if _, err := strconv.ParseInt(millis, 10, 64); err != nil {
		return "", ErrMalformedID
	}
	return track, nil
}
