package repository

import (
	"context"
	"fmt"

	"refbot/database"
	"refbot/models"
)

// LedgerRepository provides access to the append-only account history
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository bound to a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append records a new ledger entry for a user
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (telegram_id, entry_type, amount, balance_after, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.TelegramID,
		entry.EntryType,
		entry.Amount,
		entry.BalanceAfter,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w", entry.TelegramID, err)
	}

	return nil
}

// GetByUser returns the most recent entries for a user in insertion order.
// The table grows without bound, so reads are always capped by limit.
func (r *LedgerRepository) GetByUser(ctx context.Context, telegramID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, telegram_id, entry_type, amount, balance_after, description, created_at
		FROM (
			SELECT id, telegram_id, entry_type, amount, balance_after, description, created_at
			FROM ledger_entries
			WHERE telegram_id = $1
			ORDER BY id DESC
			LIMIT $2
		) latest
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d: %w", telegramID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.TelegramID,
			&entry.EntryType,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
