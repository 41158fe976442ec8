// Package repository provides data access for the leads table.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// maxSegmentHistory caps the per-lead segment history kept in metadata.
// Older entries are dropped on append.
const maxSegmentHistory = 50

// Lead statuses form a one-directional pipeline.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusConverted = "converted"
)

// SocialShare is one recorded share on a social platform.
type SocialShare struct {
	Platform  string    `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url,omitempty"`
}

// Activity is one recorded user action on a lead.
type Activity struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// SegmentHistoryEntry records one segmentation assignment.
type SegmentHistoryEntry struct {
	Segment   string    `json:"segment"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// Lead is a prospective or engaged user on the waiting list.
type Lead struct {
	ID                       uuid.UUID
	Email                    string
	Name                     *string
	Phone                    *string
	Source                   string
	Status                   string
	Segment                  *string
	LeadScore                int
	ReferralCode             string
	DiscountCode             string
	PageViews                int
	SocialShares             int
	ReferralsMade            int
	ReferralsMadeCount       int
	SuccessfulReferralsCount int
	IsSubscribedToNewsletter bool
	HasPurchased             bool
	EmailVerified            bool
	SocialSharesDetails      []SocialShare
	Activities               []Activity
	Metadata                 map[string]interface{}
	CreatedAt                *time.Time
	ConvertedAt              *time.Time
	UpdatedAt                time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, email, name, phone, source, status, segment, lead_score,
	referral_code, discount_code, page_views, social_shares, referrals_made,
	referrals_made_count, successful_referrals_count, is_subscribed_to_newsletter,
	has_purchased, email_verified, social_shares_details, activities, metadata,
	created_at, converted_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var sharesRaw, activitiesRaw, metadataRaw []byte

	err := row.Scan(
		&lead.ID, &lead.Email, &lead.Name, &lead.Phone, &lead.Source, &lead.Status,
		&lead.Segment, &lead.LeadScore, &lead.ReferralCode, &lead.DiscountCode,
		&lead.PageViews, &lead.SocialShares, &lead.ReferralsMade,
		&lead.ReferralsMadeCount, &lead.SuccessfulReferralsCount,
		&lead.IsSubscribedToNewsletter, &lead.HasPurchased, &lead.EmailVerified,
		&sharesRaw, &activitiesRaw, &metadataRaw,
		&lead.CreatedAt, &lead.ConvertedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	if len(sharesRaw) > 0 {
		_ = json.Unmarshal(sharesRaw, &lead.SocialSharesDetails)
	}
	if len(activitiesRaw) > 0 {
		_ = json.Unmarshal(activitiesRaw, &lead.Activities)
	}
	if len(metadataRaw) > 0 {
		_ = json.Unmarshal(metadataRaw, &lead.Metadata)
	}

	return lead, nil
}

// CreateLeadParams holds the fields supplied on waiting-list join.
type CreateLeadParams struct {
	Email        string
	Name         *string
	Phone        *string
	Source       string
	ReferralCode string
	DiscountCode string
}

var ErrDuplicateEmail = errors.New("lead email already exists")

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO leads (email, name, phone, source, referral_code, discount_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, leadColumns),
		params.Email, params.Name, params.Phone, params.Source, params.ReferralCode, params.DiscountCode,
	)

	lead, err := scanLead(row)
	if err != nil {
		if strings.Contains(err.Error(), "idx_leads_email") {
			return Lead{}, ErrDuplicateEmail
		}
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns), id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM leads WHERE lower(email) = lower($1)`, leadColumns), email)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// ListFilter narrows and orders lead listings.
type ListFilter struct {
	Segment   string
	SortBy    string
	Ascending bool
}

// sortColumns whitelists client-suppliable sort keys.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"lead_score": "lead_score",
	"email":      "email",
	"status":     "status",
	"updated_at": "updated_at",
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads`, leadColumns)
	args := []interface{}{}

	if filter.Segment != "" {
		query += ` WHERE segment = $1`
		args = append(args, filter.Segment)
	}

	if col, ok := sortColumns[filter.SortBy]; ok {
		direction := "DESC"
		if filter.Ascending {
			direction = "ASC"
		}
		query += fmt.Sprintf(` ORDER BY %s %s`, col, direction)
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ListAll returns every lead. The segmentation batch job scores the full
// table in one pass.
func (r *Repository) ListAll(ctx context.Context) ([]Lead, error) {
	return r.List(ctx, ListFilter{})
}

// TopByScore returns the highest-scored leads for the admin dashboard.
func (r *Repository) TopByScore(ctx context.Context, limit int) ([]Lead, error) {
	if limit < 1 {
		limit = 5
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM leads ORDER BY lead_score DESC LIMIT $1
	`, leadColumns), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ConversionStats holds lead counts for the conversion-rate metric.
type ConversionStats struct {
	Total     int
	Converted int
}

func (r *Repository) GetConversionStats(ctx context.Context) (ConversionStats, error) {
	var stats ConversionStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE status = $1) FROM leads
	`, StatusConverted).Scan(&stats.Total, &stats.Converted)
	if err != nil {
		return ConversionStats{}, err
	}
	return stats, nil
}

// UpdateStatus moves a lead through the status pipeline. Setting converted
// also records converted_at.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads
		SET status = $2,
		    converted_at = CASE WHEN $2 = '%s' THEN now() ELSE converted_at END,
		    updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, StatusConverted, leadColumns), id, status)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// SegmentUpdate carries one lead's segmentation result for persistence.
// Metadata is the full replacement metadata map, already carrying the
// appended (and capped) segment history.
type SegmentUpdate struct {
	ID       uuid.UUID
	Segment  string
	Score    int
	Metadata map[string]interface{}
	Now      time.Time
}

/// UpdateSegment persists a segmentation result: segment, score, metadata
// trail, and updated_at.
func (r *Repository) UpdateSegment(ctx context.Context, update SegmentUpdate) error {
	meta, err := json.Marshal(update.Metadata)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET segment = $2,
		    lead_score = $3,
		    metadata = $4,
		    updated_at = $5
		WHERE id = $1
	`, update.ID, update.Segment, update.Score, meta, update.Now.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendSegmentHistory returns a copy of the lead's metadata with the trail
// fields set and the new history entry appended, keeping only the most
// recent maxSegmentHistory entries.
func AppendSegmentHistory(metadata map[string]interface{}, entry SegmentHistoryEntry) map[string]interface{} {
	updated := make(map[string]interface{}, len(metadata)+3)
	for k, v := range metadata {
		updated[k] = v
	}

	var history []interface{}
	if existing, ok := updated["segment_history"].([]interface{}); ok {
		history = append(history, existing...)
	}
	history = append(history, map[string]interface{}{
		"segment":   entry.Segment,
		"timestamp": entry.Timestamp.UTC().Format(time.RFC3339),
		"score":     entry.Score,
	})
	if len(history) > maxSegmentHistory {
		history = history[len(history)-maxSegmentHistory:]
	}

	updated["segment_history"] = history
	updated["last_segmented"] = entry.Timestamp.UTC().Format(time.RFC3339)
	updated["segment_reason"] = fmt.Sprintf("Score: %d", entry.Score)
	return updated
}

// AppendSocialShare records a share for the lead matching the email: bumps
// the flat counter and appends to the structured details.
func (r *Repository) AppendSocialShare(ctx context.Context, email, platform, url string) error {
	share, err := json.Marshal(SocialShare{Platform: platform, Timestamp: time.Now().UTC(), URL: url})
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET social_shares = social_shares + 1,
		    social_shares_details = social_shares_details || $2::jsonb,
		    updated_at = now()
		WHERE lower(email) = lower($1)
	`, email, string(share))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendActivity records an activity entry for the lead matching the email.
// Activities within the trailing week feed the recency scoring signal.
func (r *Repository) AppendActivity(ctx context.Context, email, activityType string) error {
	activity, err := json.Marshal(Activity{Type: activityType, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET activities = activities || $2::jsonb,
		    updated_at = now()
		WHERE lower(email) = lower($1)
	`, email, string(activity))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
