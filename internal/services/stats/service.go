package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/dependencies/clock"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
)

// ErrNoValidFields indicates an update patch contained none of the
// allow-listed counter fields
var ErrNoValidFields = errors.New("no valid fields to update")

// PlayerView pairs an identity with its freshly computed stats view
type PlayerView struct {
	Identity *model.Identity
	Stats    model.StatsView
}

// Service is the stats ledger: raw counters in storage, ratios derived
// on read, and the competitive rank recomputed on every read
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new stats Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Get loads the player's counters, derives the ratio metrics, and
// recomputes the global rank as 1 + count(players with strictly more
// kills); equal-kill players share a rank. The recomputed rank is
// persisted back to rank_position as a side effect, so the stored
// value is only authoritative at the moment of the last read.
func (s *Service) Get(ctx context.Context, id model.IdentityID) (*PlayerView, error) {
	identity, err := s.storage.GetIdentity(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := s.storage.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}

	above, err := s.storage.CountRankedAbove(ctx, raw.Kills)
	if err != nil {
		return nil, err
	}
	rank := above + 1

	if err := s.storage.SetRankPosition(ctx, id, rank); err != nil {
		return nil, err
	}

	return &PlayerView{
		Identity: identity,
		Stats:    raw.View(rank),
	}, nil
}

// Update applies an allow-list patch as an unconditional overwrite of
// the supplied fields, then returns the result of Get so the response
// always reflects freshly recomputed ratios and rank. A patch with no
// recognized fields is rejected without writing anything.
func (s *Service) Update(ctx context.Context, id model.IdentityID, patch map[string]any) (*PlayerView, error) {
	fields := make(map[string]int64)
	for _, field := range model.StatFields {
		value, ok := patch[field]
		if !ok {
			continue
		}
		n, ok := toInt64(value)
		if !ok {
			continue
		}
		fields[field] = n
	}

	if len(fields) == 0 {
		return nil, ErrNoValidFields
	}

	if err := s.storage.PatchStats(ctx, id, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// toInt64 accepts the numeric forms a decoded JSON body can carry
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
