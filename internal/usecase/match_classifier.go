package usecase

import (
	"strings"

	"github.com/riskibarqy/rift-ledger/internal/domain/gamedata"
)

// MatchClassifier separates records worth ingesting from records the provider
// will never serve correctly. It makes no calls and holds no state.
type MatchClassifier struct {
	catalog *gamedata.Catalog
}

func NewMatchClassifier(catalog *gamedata.Catalog) *MatchClassifier {
	return &MatchClassifier{catalog: catalog}
}

// IsTrashed reports whether a record is permanently unusable: a deny-listed
// game mode, an empty version or a zero game id.
func (c *MatchClassifier) IsTrashed(m ExternalMatch) bool {
	if c.catalog.IsTrashedMode(m.GameMode) {
		return true
	}
	if strings.TrimSpace(m.Version) == "" {
		return true
	}
	return m.GameID == 0
}

func (c *MatchClassifier) Classify(matches []ExternalMatch) (usable []ExternalMatch, trashed []ExternalMatch) {
	for _, m := range matches {
		if c.IsTrashed(m) {
			trashed = append(trashed, m)
			continue
		}
		usable = append(usable, m)
	}
	return usable, trashed
}
