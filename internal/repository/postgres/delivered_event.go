package postgres

import (
	"context"
	"fmt"
)

const (
	existsDeliveredEventQuery = `SELECT EXISTS (SELECT 1 FROM delivered_event WHERE identifier=$1)`
	insertDeliveredEventQuery = `INSERT INTO delivered_event(identifier) VALUES ($1) ON CONFLICT (identifier) DO NOTHING`
)

// HasEventBeenDelivered reports whether the webhook delivery was already
// applied.
func (p *Postgres) HasEventBeenDelivered(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	if err := p.db.QueryRow(ctx, existsDeliveredEventQuery, eventID).Scan(&exists); err != nil {
		p.log.Errorw("failed to check delivered event", "error", err, "event_id", eventID)
		return false, fmt.Errorf("select delivered event: %w", err)
	}
	return exists, nil
}

// MarkEventDelivered records the delivery identifier. Recording the same
// identifier twice is harmless.
func (p *Postgres) MarkEventDelivered(ctx context.Context, eventID string) error {
	if _, err := p.db.Exec(ctx, insertDeliveredEventQuery, eventID); err != nil {
		p.log.Errorw("failed to record delivered event", "error", err, "event_id", eventID)
		return fmt.Errorf("insert delivered event: %w", err)
	}
	return nil
}
