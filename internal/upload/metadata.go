package upload

import (
	"strings"
	"time"
)

// RenderTemplate substitutes the {date} placeholder in titles and
// descriptions with the run date.
func RenderTemplate(template string, now time.Time) string {
	return strings.ReplaceAll(template, "{date}", now.Format("2006-01-02"))
}

// BuildDescription renders the description template and appends the chapter
// tracklist so viewers can jump between tracks even on clients that ignore
// embedded chapters.
func BuildDescription(template, tracklist string, now time.Time) string {
	description := strings.TrimSpace(RenderTemplate(template, now))
	tracklist = strings.TrimSpace(tracklist)
	if tracklist == "" {
		return description
	}
	if description == "" {
		return tracklist
	}
	return description + "\n\n" + tracklist
}
