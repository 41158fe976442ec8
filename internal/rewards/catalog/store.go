package catalog

import (
	"context"
	"errors"

	"rewards_backend/internal/rewards/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore reads the rewards table.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const rewardColumns = `id, kind, name, description, points_threshold, season_start, season_end, status`

func (s *PGStore) ListRewards(ctx context.Context) ([]Reward, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards
		ORDER BY points_threshold, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []Reward
	for rows.Next() {
		var r Reward
		if err := rows.Scan(&r.ID, &r.Kind, &r.Name, &r.Description, &r.PointsThreshold,
			&r.SeasonStart, &r.SeasonEnd, &r.Status); err != nil {
			return nil, err
		}
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

func (s *PGStore) GetReward(ctx context.Context, id uuid.UUID) (Reward, error) {
	var r Reward
	err := s.pool.QueryRow(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Kind, &r.Name, &r.Description, &r.PointsThreshold,
		&r.SeasonStart, &r.SeasonEnd, &r.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reward{}, repository.ErrNotFound
	}
	if err != nil {
		return Reward{}, err
	}
	return r, nil
}
