package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

var winByRunsRegex = regexp.MustCompile(`(?i)won by (\d+) runs?`)
var winByWicketsRegex = regexp.MustCompile(`(?i)won by (\d+) (wkts?|wickets?)`)

// MatchOutcome is what can be read off a free-text result line. All
// fields are optional; a winner without a margin is a valid outcome.
type MatchOutcome struct {
	WinnerTeamID string
	WinByRuns    *int
	WinByWickets *int
}

// ResultExtractor parses provider result lines such as
// "Chennai Super Kings won by 23 runs". It never fails: text it cannot
// interpret yields an empty outcome.
type ResultExtractor struct {
	logger *logging.Logger
}

func NewResultExtractor(logger *logging.Logger) *ResultExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultExtractor{logger: logger}
}

func (e *ResultExtractor) Extract(ctx context.Context, statusText string, home, away team.Team) MatchOutcome {
	status := strings.TrimSpace(statusText)
	if status == "" {
		return MatchOutcome{}
	}

	lower := strings.ToLower(status)
	homeHit := teamMentioned(lower, home)
	awayHit := teamMentioned(lower, away)

	var winner team.Team
	switch {
	case homeHit && awayHit:
		// Both sides appear in the text, e.g. "Mumbai Indians beat
		// Chennai Super Kings". Prefer the home side so repeated runs
		// agree with each other.
		winner = home
		e.logger.WarnContext(ctx, "result line mentions both teams, preferring home team",
			"status", status,
			"home_team", home.Name,
			"away_team", away.Name,
		)
	case homeHit:
		winner = home
	case awayHit:
		winner = away
	default:
		return MatchOutcome{}
	}

	out := MatchOutcome{WinnerTeamID: winner.ID}
	if groups := winByWicketsRegex.FindStringSubmatch(status); len(groups) > 1 {
		if value, err := strconv.Atoi(groups[1]); err == nil {
			out.WinByWickets = &value
		}
	} else if groups := winByRunsRegex.FindStringSubmatch(status); len(groups) > 1 {
		if value, err := strconv.Atoi(groups[1]); err == nil {
			out.WinByRuns = &value
		}
	}

	return out
}

func teamMentioned(lowerStatus string, item team.Team) bool {
	name := strings.ToLower(strings.TrimSpace(item.Name))
	if name != "" && strings.Contains(lowerStatus, name) {
		return true
	}
	short := strings.ToLower(strings.TrimSpace(item.Short))
	if len(short) >= 2 && strings.Contains(lowerStatus, short) {
		return true
	}
	return false
}
