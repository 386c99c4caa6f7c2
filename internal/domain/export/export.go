package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"recruit/internal/domain/application"
)

// Header is the flattened column set: common columns first, then baby-only,
// then staff-only. Track-specific cells are blank for the other track's rows.
var Header = []string{
	"id", "track", "submittedAt",
	"name", "studentId", "email", "phone", "major", "doubleMajor", "currentYear",
	"schedule1", "schedule2", "schedule3", "interviewDates", "activities",
	"interestField", "codingExperience",
	"position", "techStack", "portfolio",
	"essay1", "essay2", "essay3",
}

// Rows flattens applications into one tabular row per application.
// List-valued fields are joined into single delimited strings; blank activity
// entries are filtered. Pure: never mutates its input.
// POST: len(rows) == len(apps), each row has len(Header) cells
func Rows(apps []application.Application) [][]string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		f := app.Form
		row := []string{
			app.ID,
			app.Track,
			app.SubmittedAt.UTC().Format(time.RFC3339),
			f.Name, f.StudentID, f.Email, f.Phone, f.Major, f.DoubleMajor, f.CurrentYear,
			f.Schedule1, f.Schedule2, f.Schedule3,
			strings.Join(f.InterviewDates, ", "),
			strings.Join(nonBlank(f.Activities), "; "),
		}
		switch app.Track {
		case application.TrackBaby:
			row = append(row, f.InterestField, f.CodingExperience, "", "", "")
		case application.TrackStaff:
			row = append(row, "", "", f.Position, f.TechStack, f.Portfolio)
		default:
			row = append(row, "", "", "", "", "")
		}
		row = append(row, f.Essay1, f.Essay2, f.Essay3)
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and one row per application to w.
func WriteCSV(w io.Writer, apps []application.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range Rows(apps) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func nonBlank(entries []string) []string {
	var out []string
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			out = append(out, e)
		}
	}
	return out
}
