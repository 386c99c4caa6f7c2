package orchestrators

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"

	"recruit/internal/domain/application"
)

var noticeMarkdown = goldmark.New()

func trackLabel(track string) string {
	if track == application.TrackStaff {
		return "운영진"
	}
	return "아기사자"
}

func submissionNoticeSubject(app application.Application) string {
	return fmt.Sprintf("[멋쟁이사자처럼 14기] 새 %s 지원서 접수: %s", trackLabel(app.Track), app.Form.Name)
}

// submissionNoticeHTML renders the admin notification body. The summary is
// written as markdown and converted so the mail reads well in any client.
func submissionNoticeHTML(app application.Application) string {
	var md strings.Builder
	fmt.Fprintf(&md, "## 새로운 %s 지원서가 접수되었습니다\n\n", trackLabel(app.Track))
	fmt.Fprintf(&md, "- **이름**: %s\n", app.Form.Name)
	fmt.Fprintf(&md, "- **학번**: %s\n", app.Form.StudentID)
	fmt.Fprintf(&md, "- **이메일**: %s\n", app.Form.Email)
	fmt.Fprintf(&md, "- **전화번호**: %s\n", app.Form.Phone)
	fmt.Fprintf(&md, "- **전공**: %s\n", app.Form.Major)
	fmt.Fprintf(&md, "- **면접 가능일**: %s\n", strings.Join(app.Form.InterviewDates, ", "))
	if app.Track == application.TrackStaff {
		fmt.Fprintf(&md, "- **지원 포지션**: %s\n", app.Form.Position)
	} else if app.Form.InterestField != "" {
		fmt.Fprintf(&md, "- **관심 분야**: %s\n", app.Form.InterestField)
	}
	fmt.Fprintf(&md, "\n접수 번호: `%s`\n", app.ID)
	fmt.Fprintf(&md, "접수 시각: %s\n", app.SubmittedAt.Format("2006-01-02 15:04:05 MST"))

	var html bytes.Buffer
	if err := noticeMarkdown.Convert([]byte(md.String()), &html); err != nil {
		slog.Warn("submission_notice_render_failed", "application_id", app.ID, "error", err)
		return "<pre>" + md.String() + "</pre>"
	}
	return html.String()
}
