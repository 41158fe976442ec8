// Package repository provides data access for user points balances and
// claimed rewards.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrAlreadyClaimed = errors.New("reward already claimed")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// IncrementPoints adds amount to the user's balance in a single statement,
// creating the row when the user has no balance yet. Concurrent increments
// cannot lose updates. Returns the new total.
func (r *Repository) IncrementPoints(ctx context.Context, userID uuid.UUID, email string, amount int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, points, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET points = users.points + EXCLUDED.points,
		    updated_at = now()
		RETURNING points
	`, userID, email, amount).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetPoints returns the user's balance, zero when no row exists.
func (r *Repository) GetPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	var points int
	err := r.pool.QueryRow(ctx, `SELECT points FROM users WHERE id = $1`, userID).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return points, nil
}

// ClaimedReward is a reward redemption issued to a user.
type ClaimedReward struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	RewardID       uuid.UUID
	RewardKind     string
	RedemptionCode string
	ClaimedAt      time.Time
}

// InsertClaim records a reward redemption. Each reward can be claimed once
// per user.
func (r *Repository) InsertClaim(ctx context.Context, claim ClaimedReward) (ClaimedReward, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_rewards (user_id, reward_id, reward_kind, redemption_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, claimed_at
	`, claim.UserID, claim.RewardID, claim.RewardKind, claim.RedemptionCode).Scan(&claim.ID, &claim.ClaimedAt)
	if err != nil {
		if strings.Contains(err.Error(), "user_rewards_user_id_reward_id_key") {
			return ClaimedReward{}, ErrAlreadyClaimed
		}
		return ClaimedReward{}, err
	}
	return claim, nil
}

// ListClaims returns the user's claimed rewards, newest first.
func (r *Repository) ListClaims(ctx context.Context, userID uuid.UUID) ([]ClaimedReward, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, reward_id, reward_kind, redemption_code, claimed_at
		FROM user_rewards
		WHERE user_id = $1
		ORDER BY claimed_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []ClaimedReward
	for rows.Next() {
		var c ClaimedReward
		if err := rows.Scan(&c.ID, &c.UserID, &c.RewardID, &c.RewardKind, &c.RedemptionCode, &c.ClaimedAt); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
