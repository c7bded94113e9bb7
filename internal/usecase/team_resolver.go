package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// TeamResolver maps a feed team name onto the canonical team row,
// creating missing teams on first sight. Identity is keyed on the
// normalized name so spelling variants of the same franchise collapse
// into one record.
type TeamResolver struct {
	teamRepo team.Repository
	ids      id.Generator
	logger   *logging.Logger
}

func NewTeamResolver(teamRepo team.Repository, ids id.Generator, logger *logging.Logger) *TeamResolver {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamResolver{
		teamRepo: teamRepo,
		ids:      ids,
		logger:   logger,
	}
}

func (r *TeamResolver) Resolve(ctx context.Context, info ExternalTeamInfo) (team.Team, error) {
	name := strings.TrimSpace(info.Name)
	key := team.NormalizeKey(name)
	if key == "" {
		return team.Team{}, fmt.Errorf("%w: team name is empty", ErrInvalidInput)
	}

	existing, found, err := r.teamRepo.GetByKey(ctx, key)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by key=%s: %w", key, err)
	}
	if found {
		return r.healLogo(ctx, existing, info)
	}

	short := strings.TrimSpace(info.Short)
	if short == "" {
		short = team.ShortFromKey(key)
	}
	logo := strings.TrimSpace(info.LogoURL)
	if logo == "" {
		logo = team.DefaultLogoURL
	}

	newID, err := r.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("mint team id: %w", err)
	}

	created, err := r.teamRepo.Upsert(ctx, team.Team{
		ID:          newID,
		Name:        name,
		NameKey:     key,
		Short:       short,
		LogoURL:     logo,
		FoundedYear: team.DefaultFoundedYear,
	})
	if err != nil {
		return team.Team{}, fmt.Errorf("create team key=%s: %w", key, err)
	}

	r.logger.InfoContext(ctx, "created team from feed",
		"team_id", created.ID,
		"team_key", key,
		"team_short", short,
	)
	return created, nil
}

// healLogo keeps the stored logo in step with the feed. Provider image
// URLs drift between seasons, so any non-empty feed URL that differs
// from the stored one wins.
func (r *TeamResolver) healLogo(ctx context.Context, existing team.Team, info ExternalTeamInfo) (team.Team, error) {
	logo := strings.TrimSpace(info.LogoURL)
	if logo == "" || logo == existing.LogoURL {
		return existing, nil
	}

	existing.LogoURL = logo
	updated, err := r.teamRepo.Upsert(ctx, existing)
	if err != nil {
		return team.Team{}, fmt.Errorf("refresh team logo key=%s: %w", existing.NameKey, err)
	}
	r.logger.InfoContext(ctx, "refreshed team logo from feed", "team_id", updated.ID, "team_key", updated.NameKey)
	return updated, nil
}
