package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/etnz/portodash"
)

// StatusMarkdown renders the scheduled job's status record.
func StatusMarkdown(status portodash.JobStatus) string {
	orDash := func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	}
	running := "no"
	if status.JobRunning {
		running = "yes"
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Scheduler Status")
	doc.Table(md.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Last run", orDash(status.LastRun)},
			{"Next run", orDash(status.NextRun)},
			{"Last error", orDash(status.LastError)},
			{"Running", running},
		},
	})
	return doc.String()
}
