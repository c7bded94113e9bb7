package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func extractorTeams() (team.Team, team.Team) {
	home := team.Team{ID: "team-csk", Name: "Chennai Super Kings", NameKey: "chennaisuperkings", Short: "CSK"}
	away := team.Team{ID: "team-dc", Name: "Delhi Capitals", NameKey: "delhicapitals", Short: "DC"}
	return home, away
}

func TestExtract_WinByRuns(t *testing.T) {
	t.Parallel()

	home, away := extractorTeams()
	extractor := NewResultExtractor(logging.NewNop())

	out := extractor.Extract(context.Background(), "Chennai Super Kings won by 23 runs", home, away)
	if out.WinnerTeamID != home.ID {
		t.Fatalf("expected winner=%s, got=%s", home.ID, out.WinnerTeamID)
	}
	if out.WinByRuns == nil || *out.WinByRuns != 23 {
		t.Fatalf("expected win_by_runs=23, got=%v", out.WinByRuns)
	}
	if out.WinByWickets != nil {
		t.Fatalf("expected no wicket margin, got=%d", *out.WinByWickets)
	}
}

func TestExtract_WinByWicketsAbbreviated(t *testing.T) {
	t.Parallel()

	home, away := extractorTeams()
	extractor := NewResultExtractor(logging.NewNop())

	out := extractor.Extract(context.Background(), "Delhi Capitals won by 4 wkts", home, away)
	if out.WinnerTeamID != away.ID {
		t.Fatalf("expected winner=%s, got=%s", away.ID, out.WinnerTeamID)
	}
	if out.WinByWickets == nil || *out.WinByWickets != 4 {
		t.Fatalf("expected win_by_wickets=4, got=%v", out.WinByWickets)
	}
	if out.WinByRuns != nil {
		t.Fatalf("expected no run margin, got=%d", *out.WinByRuns)
	}
}

func TestExtract_SingularRunAndWicketForms(t *testing.T) {
	t.Parallel()

	home, away := extractorTeams()
	extractor := NewResultExtractor(logging.NewNop())

	out := extractor.Extract(context.Background(), "CSK won by 1 run", home, away)
	if out.WinnerTeamID != home.ID {
		t.Fatalf("expected short code to resolve winner=%s, got=%s", home.ID, out.WinnerTeamID)
	}
	if out.WinByRuns == nil || *out.WinByRuns != 1 {
		t.Fatalf("expected win_by_runs=1, got=%v", out.WinByRuns)
	}

	out = extractor.Extract(context.Background(), "Delhi Capitals won by 1 wicket", home, away)
	if out.WinByWickets == nil || *out.WinByWickets != 1 {
		t.Fatalf("expected win_by_wickets=1, got=%v", out.WinByWickets)
	}
}

func TestExtract_WinnerWithoutMargin(t *testing.T) {
	t.Parallel()

	home, away := extractorTeams()
	extractor := NewResultExtractor(logging.NewNop())

	out := extractor.Extract(context.Background(), "Delhi Capitals won the super over", home, away)
	if out.WinnerTeamID != away.ID {
		t.Fatalf("expected winner=%s, got=%s", away.ID, out.WinnerTeamID)
	}
	if out.WinByRuns != nil || out.WinByWickets != nil {
		t.Fatalf("expected no margin, got runs=%v wickets=%v", out.WinByRuns, out.WinByWickets)
	}
}

func TestExtract_BothTeamsMentionedPrefersHome(t *testing.T) {
	t.Parallel()

	home, away := extractorTeams()
	extractor := NewResultExtractor(logging.NewNop())

	out := extractor.Extract(context.Background(), "Chennai Super Kings beat Delhi Capitals in a thriller", home, away)
	if out.WinnerTeamID != home.ID {
		t.Fatalf("expected home team preferred, got=%s", out.WinnerTeamID)
	}
}

func TestExtract_UnrecognizedTextYieldsEmptyOutcome(t *testing.T) {
	t.Parallel()

	home, away := extractorTeams()
	extractor := NewResultExtractor(logging.NewNop())

	out := extractor.Extract(context.Background(), "Match abandoned due to rain", home, away)
	if out.WinnerTeamID != "" || out.WinByRuns != nil || out.WinByWickets != nil {
		t.Fatalf("expected empty outcome, got=%+v", out)
	}

	out = extractor.Extract(context.Background(), "", home, away)
	if out.WinnerTeamID != "" {
		t.Fatalf("expected empty outcome for empty text, got=%+v", out)
	}
}
