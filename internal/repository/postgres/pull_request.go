package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PierrickMartos/slub/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertPRQuery = `INSERT INTO pull_request(identifier, gtms, not_gtms, ci_status, is_merged, is_too_large, message_ids)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	selectPRQuery = `SELECT identifier, gtms, not_gtms, ci_status, is_merged, is_too_large, message_ids
FROM pull_request WHERE identifier=$1`
	selectPRForUpdateQuery = selectPRQuery + ` FOR UPDATE`
	updatePRQuery          = `UPDATE pull_request
SET gtms=$2, not_gtms=$3, ci_status=$4, is_merged=$5, is_too_large=$6, message_ids=$7, updated_at=NOW()
WHERE identifier=$1`
)

// CreatePR persists a newly tracked PR.
func (p *Postgres) CreatePR(ctx context.Context, pr *entities.PullRequest) error {
	n := pr.Normalize()
	messageIDs, err := json.Marshal(n.MessageIDs)
	if err != nil {
		return fmt.Errorf("marshal message ids: %w", err)
	}

	_, err = p.db.Exec(ctx, insertPRQuery,
		n.Identifier, n.GTMs, n.NotGTMs, n.CIStatus, n.IsMerged, n.IsTooLarge, messageIDs)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.ErrPRExists
		}
		p.log.Errorw("failed to insert pull request", "error", err, "pr_identifier", n.Identifier)
		return fmt.Errorf("insert pr: %w", err)
	}

	p.log.Infow("pr tracked", "pr_identifier", n.Identifier)
	return nil
}

// GetPR loads a PR by identifier. A stored record missing required fields
// surfaces as entities.ErrMalformedPR, never as a defaulted aggregate.
func (p *Postgres) GetPR(ctx context.Context, id entities.PRIdentifier) (*entities.PullRequest, error) {
	pr, err := p.scanPR(p.db.QueryRow(ctx, selectPRQuery, id.String()), id)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// UpdatePR applies mutate to the PR under a row lock. The SELECT ... FOR
// UPDATE serializes concurrent load-mutate-save cycles per identifier, so
// two deliveries incrementing the same counter cannot lose an update. A
// mutate error rolls the transaction back.
func (p *Postgres) UpdatePR(ctx context.Context, id entities.PRIdentifier, mutate func(*entities.PullRequest) error) (res *entities.PullRequest, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pr, err := p.scanPR(tx.QueryRow(ctx, selectPRForUpdateQuery, id.String()), id)
	if err != nil {
		return nil, err
	}

	if err := mutate(pr); err != nil {
		return nil, err
	}

	n := pr.Normalize()
	messageIDs, err := json.Marshal(n.MessageIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal message ids: %w", err)
	}

	if _, err := tx.Exec(ctx, updatePRQuery,
		n.Identifier, n.GTMs, n.NotGTMs, n.CIStatus, n.IsMerged, n.IsTooLarge, messageIDs); err != nil {
		p.log.Errorw("failed to update pull request", "error", err, "pr_identifier", n.Identifier)
		return nil, fmt.Errorf("update pr: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return pr, nil
}

func (p *Postgres) scanPR(row pgx.Row, id entities.PRIdentifier) (*entities.PullRequest, error) {
	var (
		n       entities.NormalizedPR
		rawMsgs []byte
	)
	err := row.Scan(&n.Identifier, &n.GTMs, &n.NotGTMs, &n.CIStatus, &n.IsMerged, &n.IsTooLarge, &rawMsgs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPRNotFound
		}
		p.log.Errorw("failed to select pull request", "error", err, "pr_identifier", id)
		return nil, fmt.Errorf("select pr: %w", err)
	}

	if err := json.Unmarshal(rawMsgs, &n.MessageIDs); err != nil {
		return nil, fmt.Errorf("%w: message_ids: %s", entities.ErrMalformedPR, err)
	}

	pr, err := entities.PullRequestFromNormalized(n)
	if err != nil {
		p.log.Errorw("stored pull request record is malformed", "error", err, "pr_identifier", id)
		return nil, err
	}
	return pr, nil
}
