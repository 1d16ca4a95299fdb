package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
)

// IdentityConflictResolver refreshes the Riot id of rows that share a
// (game name, tag line, platform) triple with another row. Riot ids move
// between accounts over time, so the stale holder is renamed from the account
// lookup.
type IdentityConflictResolver struct {
	identityRepo identity.Repository
	provider     MatchProvider
	logger       *logging.Logger
}

func NewIdentityConflictResolver(identityRepo identity.Repository, provider MatchProvider, logger *logging.Logger) *IdentityConflictResolver {
	return &IdentityConflictResolver{
		identityRepo: identityRepo,
		provider:     provider,
		logger:       logging.OrDefault(logger).Named("identity_conflicts"),
	}
}

// Resolve is best effort. Lookup failures are logged and skipped; only store
// errors are returned.
func (r *IdentityConflictResolver) Resolve(ctx context.Context, puuids []string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityConflictResolver.Resolve")
	defer span.End()

	if len(puuids) == 0 {
		return 0, nil
	}
	conflicts, err := r.identityRepo.ListDisplayConflicts(ctx, puuids)
	if err != nil {
		return 0, fmt.Errorf("list identity display conflicts: %w", err)
	}
	if len(conflicts) == 0 {
		return 0, nil
	}

	renames := make([]identity.Observation, 0, len(conflicts))
	for _, row := range conflicts {
		account, err := r.provider.FetchIdentity(ctx, row.Platform, row.PUUID)
		if err != nil {
			r.logger.WarnContext(ctx, "conflict lookup failed", "puuid", row.PUUID, "error", err)
			continue
		}
		gameName := strings.TrimSpace(account.GameName)
		tagLine := strings.TrimSpace(account.TagLine)
		if gameName == "" || tagLine == "" {
			continue
		}
		if gameName == row.GameName && tagLine == row.TagLine {
			continue
		}
		renames = append(renames, identity.Observation{
			PUUID:    row.PUUID,
			GameName: gameName,
			TagLine:  tagLine,
			Platform: row.Platform,
		})
	}
	if len(renames) == 0 {
		return 0, nil
	}

	updated, err := r.identityRepo.UpdateNames(ctx, renames)
	if err != nil {
		return 0, fmt.Errorf("rename conflicting identities: %w", err)
	}
	r.logger.InfoContext(ctx, "identity display conflicts resolved", "conflicts", len(conflicts), "renamed", updated)
	return updated, nil
}
