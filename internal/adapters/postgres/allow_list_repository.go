package postgres

import (
	"CaptionRelay/internal/core/ports"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type allowListRepository struct {
	db  *DB
	log zerolog.Logger
}

// NewAllowListRepository creates a repository over the authorized_users table.
func NewAllowListRepository(db *DB, baseLogger *zerolog.Logger) ports.AllowListRepository {
	return &allowListRepository{
		db:  db,
		log: baseLogger.With().Str("component", "allow_list_repo").Logger(),
	}
}

// ListAuthorizedIDs returns every non-revoked Telegram ID, ascending.
func (r *allowListRepository) ListAuthorizedIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT telegram_id
		FROM authorized_users
		WHERE revoked_at IS NULL
		ORDER BY telegram_id`

	rows, err := r.db.pool.Query(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query authorized users")
		return nil, fmt.Errorf("query authorized users: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to scan authorized users")
		return nil, fmt.Errorf("scan authorized users: %w", err)
	}

	r.log.Info().Int("count", len(ids)).Msg("Loaded authorized users")
	return ids, nil
}
