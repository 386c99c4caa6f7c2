package application

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\d{3}-?\d{3,4}-?\d{4}$`)
)

// Validate maps a form record and track to field-level error messages.
// It is pure and deterministic, and is run on both sides of the wire: the
// client uses it to annotate inputs before submit, the server re-runs it as
// the authoritative gate. Returns an empty map when the record is valid.
// PRE: track is baby or staff (unknown tracks fail every track-specific rule)
// POST: each failing field appears exactly once, keyed by its JSON name
func Validate(track string, f FormData) map[string]string {
	errs := make(map[string]string)

	required := map[string]string{
		"name":        f.Name,
		"studentId":   f.StudentID,
		"email":       f.Email,
		"phone":       f.Phone,
		"major":       f.Major,
		"currentYear": f.CurrentYear,
		"schedule1":   f.Schedule1,
		"schedule2":   f.Schedule2,
		"schedule3":   f.Schedule3,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "required field is missing"
		}
	}

	if _, ok := errs["email"]; !ok && !emailRe.MatchString(f.Email) {
		errs["email"] = "invalid email format"
	}
	if _, ok := errs["phone"]; !ok && !phoneRe.MatchString(stripPhoneSeparators(f.Phone)) {
		errs["phone"] = "invalid phone format"
	}

	if len(f.InterviewDates) == 0 {
		errs["interviewDates"] = "select at least one interview date"
	} else {
		for _, d := range f.InterviewDates {
			if !offeredDate(d) {
				errs["interviewDates"] = "unknown interview date: " + d
				break
			}
		}
	}

	// Activities may contain blank entries (filtered at export time), but the
	// list itself must be present.
	if f.Activities == nil {
		errs["activities"] = "required field is missing"
	}

	switch track {
	case TrackBaby:
		switch f.InterestField {
		case InterestFrontend, InterestBackend, InterestDesign, InterestUnsure:
		default:
			errs["interestField"] = "invalid interest field"
		}
		switch f.CodingExperience {
		case "", ExperienceNone, ExperienceClass, ExperienceProject:
		default:
			errs["codingExperience"] = "invalid coding experience"
		}
	case TrackStaff:
		switch f.Position {
		case PositionPlanning, PositionFrontend, PositionBackend, PositionDesign:
		default:
			errs["position"] = "invalid position"
		}
		if strings.TrimSpace(f.TechStack) == "" {
			errs["techStack"] = "required field is missing"
		}
		// Portfolio is optional, validated only when present.
		if p := strings.TrimSpace(f.Portfolio); p != "" &&
			!strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			errs["portfolio"] = "portfolio must start with http:// or https://"
		}
	}

	if strings.TrimSpace(f.Essay1) == "" {
		errs["essay1"] = "required field is missing"
	}
	if strings.TrimSpace(f.Essay2) == "" {
		errs["essay2"] = "required field is missing"
	}
	if strings.TrimSpace(f.Essay3) == "" {
		errs["essay3"] = "required field is missing"
	}

	return errs
}

func stripPhoneSeparators(phone string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(phone)
}

func offeredDate(d string) bool {
	for _, offered := range OfferedInterviewDates {
		if d == offered {
			return true
		}
	}
	return false
}
