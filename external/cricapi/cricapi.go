package cricapi

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/rawfeed"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

var (
	ordinalMatchNumberRegex = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)\s+match`)
	leadingDigitsRegex      = regexp.MustCompile(`\d+`)
)

type currentMatchesEnvelope struct {
	Status string           `json:"status"`
	Data   *[]upstreamMatch `json:"data"`
	Info   map[string]any   `json:"info"`
}

// The series_info endpoint nests its match list one level deeper than
// currentMatches; the two envelopes must not be conflated.
type seriesInfoEnvelope struct {
	Status string          `json:"status"`
	Data   *seriesInfoData `json:"data"`
}

type seriesInfoData struct {
	Info      map[string]any   `json:"info"`
	MatchList *[]upstreamMatch `json:"matchList"`
}

type upstreamMatch struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	MatchType    string             `json:"matchType"`
	Status       string             `json:"status"`
	Venue        string             `json:"venue"`
	Date         string             `json:"date"`
	DateTimeGMT  string             `json:"dateTimeGMT"`
	Teams        []string           `json:"teams"`
	TeamInfo     []upstreamTeamInfo `json:"teamInfo"`
	SeriesID     string             `json:"series_id"`
	MatchStarted bool               `json:"matchStarted"`
	MatchEnded   bool               `json:"matchEnded"`
}

type upstreamTeamInfo struct {
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Img       string `json:"img"`
}

// mapUpstreamMatch normalizes one provider record. Records without a
// stable id or without both team entries are structurally unusable and
// are reported as dropped rather than failing the whole pull.
func mapUpstreamMatch(item upstreamMatch) (usecase.ExternalMatch, bool) {
	if strings.TrimSpace(item.ID) == "" {
		return usecase.ExternalMatch{}, false
	}
	if len(item.TeamInfo) < 2 {
		return usecase.ExternalMatch{}, false
	}

	home := mapUpstreamTeamInfo(item.TeamInfo[0])
	away := mapUpstreamTeamInfo(item.TeamInfo[1])
	if team.NormalizeKey(home.Name) == "" || team.NormalizeKey(away.Name) == "" {
		return usecase.ExternalMatch{}, false
	}

	out := usecase.ExternalMatch{
		ExternalID:   strings.TrimSpace(item.ID),
		Name:         strings.TrimSpace(item.Name),
		Number:       parseMatchNumber(item.Name),
		ScheduledAt:  parseProviderDateTime(item.DateTimeGMT, item.Date),
		Venue:        strings.TrimSpace(item.Venue),
		HomeTeam:     home,
		AwayTeam:     away,
		StatusText:   strings.TrimSpace(item.Status),
		MatchStarted: item.MatchStarted,
		MatchEnded:   item.MatchEnded,
	}
	out.Status = classifyStatus(out.StatusText, item.MatchStarted, item.MatchEnded)

	return out, true
}

func mapUpstreamTeamInfo(item upstreamTeamInfo) usecase.ExternalTeamInfo {
	return usecase.ExternalTeamInfo{
		Name:    strings.TrimSpace(item.Name),
		Short:   strings.TrimSpace(item.ShortName),
		LogoURL: strings.TrimSpace(item.Img),
	}
}

// classifyStatus prefers the explicit started/ended flags and falls back
// to keyword containment in the free-text status line.
func classifyStatus(statusText string, started, ended bool) match.Status {
	if ended {
		return match.StatusCompleted
	}
	if started {
		return match.StatusLive
	}
	return match.ClassifyStatus(statusText)
}

// parseMatchNumber pulls the sequence number out of free-text names such
// as "38th Match". Unparseable names default to 0.
func parseMatchNumber(name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0
	}

	if groups := ordinalMatchNumberRegex.FindStringSubmatch(name); len(groups) > 1 {
		if value, err := strconv.Atoi(groups[1]); err == nil && value > 0 {
			return value
		}
	}

	candidate := leadingDigitsRegex.FindString(name)
	if candidate == "" {
		return 0
	}
	value, err := strconv.Atoi(candidate)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

func parseProviderDateTime(values ...string) *time.Time {
	layouts := []string{
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		for _, layout := range layouts {
			parsed, err := time.Parse(layout, value)
			if err == nil {
				v := parsed.UTC()
				return &v
			}
		}
	}
	return nil
}

func buildFeedSnapshot(path string, query map[string]string, raw []byte) rawfeed.Payload {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	entityKey := strings.TrimSpace(path)
	if encoded := values.Encode(); encoded != "" {
		entityKey += "?" + encoded
	}

	sum := sha256.Sum256(raw)
	return rawfeed.Payload{
		Source:      "cricapi",
		Endpoint:    strings.TrimSpace(path),
		EntityKey:   entityKey,
		PayloadJSON: string(raw),
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   time.Now().UTC(),
	}
}
