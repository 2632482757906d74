package studydump

import (
	"fmt"
	"strings"
)

// IssueNothingFound is reported when a result has neither a summary nor entries.
const IssueNothingFound = "neither a summary nor any Q&A pairs were found."

// Validate lists advisory problems with r. An empty list means r is fit to
// be stored.
func Validate(r Result) []string {
	var issues []string
	if r.Summary == nil && len(r.Entries) == 0 {
		issues = append(issues, IssueNothingFound)
	}
	for i, e := range r.Entries {
		if strings.TrimSpace(e.Question) == "" {
			issues = append(issues, fmt.Sprintf("entry %d: question is empty", i+1))
		}
		if strings.TrimSpace(e.Answer) == "" {
			issues = append(issues, fmt.Sprintf("entry %d: answer is empty", i+1))
		}
	}
	return issues
}
