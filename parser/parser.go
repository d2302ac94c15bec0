// Package parser classifies the free-text answer rendered by the lookup site.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/emotetcheck/models"
)

// countsPattern matches the count sentence on its own line. The site prints
// introductory lines before it, so the anchors are per line.
var countsPattern = regexp.MustCompile(
	`(?m)^([0-9]+) times as REAL SENDER, ([0-9]+) times as FAKE SENDER and ([0-9]+) times as RECIPIENT.$`,
)

const (
	markerFound    = "FOUND!!!"
	markerNotFound = "NOT found"
)

// Parse turns raw result text into an Outcome. Text that is neither a known
// positive nor a known negative answer yields an INVALID_RESPONSE LookupError
// carrying the text.
func Parse(raw string) (models.Outcome, error) {
	m := countsPattern.FindStringSubmatch(raw)

	switch {
	case m == nil && strings.Contains(raw, markerNotFound):
		return models.NotFound, nil
	case m != nil && strings.Contains(raw, markerFound):
		var n [3]int
		for i := range n {
			v, err := strconv.Atoi(m[i+1])
			if err != nil {
				return models.Outcome{}, invalid(raw, err)
			}
			n[i] = v
		}
		return models.FoundWith(models.Counts{
			RealSender: n[0],
			FakeSender: n[1],
			Recipient:  n[2],
		}), nil
	default:
		return models.Outcome{}, invalid(raw, nil)
	}
}

func invalid(raw string, err error) *models.LookupError {
	return &models.LookupError{
		Code:    models.ErrCodeInvalidResponse,
		Message: "no valid answer",
		Text:    raw,
		Err:     err,
	}
}
