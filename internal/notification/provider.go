// internal/notification/provider.go

package notifications

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// PostgresContextProvider assembles the live partner context from the
// couple's latest mood check-ins and today's synced availability overlap.
// Missing rows fall back to neutral values rather than erroring; a couple
// that never checks in still gets sensible timing.
type PostgresContextProvider struct {
	db *sqlx.DB
}

func NewPostgresContextProvider(db *sqlx.DB) *PostgresContextProvider {
	return &PostgresContextProvider{db: db}
}

func (p *PostgresContextProvider) GetPartnerContext(ctx context.Context, userID int64) (*PartnerContext, error) {
	pc := NeutralContext()

	var mood, energy int
	err := p.db.QueryRowContext(ctx, `
		SELECT mood, energy
		FROM mood_checkins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(&mood, &energy)
	if err == nil {
		pc.Mood = mood
		pc.Energy = energy
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	var partnerID sql.NullInt64
	err = p.db.QueryRowContext(ctx, `
		SELECT partner_id FROM users WHERE id = $1`, userID).Scan(&partnerID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if partnerID.Valid {
		var partnerEnergy int
		err = p.db.QueryRowContext(ctx, `
			SELECT energy
			FROM mood_checkins
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT 1`, partnerID.Int64).Scan(&partnerEnergy)
		if err == nil {
			pc.PartnerEnergy = partnerEnergy
		} else if err != sql.ErrNoRows {
			return nil, err
		}
	}

	// Overlap hours are synced daily from the couple's calendars.
	var overlap float64
	err = p.db.QueryRowContext(ctx, `
		SELECT overlap_hours
		FROM shared_availability
		WHERE user_id = $1 AND day = CURRENT_DATE`, userID).Scan(&overlap)
	if err == nil {
		pc.CalendarOverlapHours = overlap
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	return pc, nil
}
