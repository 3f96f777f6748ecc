package repository

import "context"

// PasswordHistoryRepository stores superseded password hashes per account.
type PasswordHistoryRepository interface {
	Add(ctx context.Context, salesID int64, passwordHash string) error
	ListRecent(ctx context.Context, salesID int64, limit int) ([]string, error)
}

type passwordHistoryRepository struct {
	db DBTX
}

// NewPasswordHistoryRepository constructs repository.
func NewPasswordHistoryRepository(db DBTX) PasswordHistoryRepository {
	return &passwordHistoryRepository{db: db}
}

func (r *passwordHistoryRepository) Add(ctx context.Context, salesID int64, passwordHash string) error {
	const query = `INSERT INTO password_history (sales_id, password_hash) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, salesID, passwordHash)
	return err
}

// ListRecent returns up to limit hashes, newest first.
func (r *passwordHistoryRepository) ListRecent(ctx context.Context, salesID int64, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	const query = `
        SELECT password_hash FROM password_history
        WHERE sales_id=$1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, salesID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make([]string, 0, limit)
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, rows.Err()
}
