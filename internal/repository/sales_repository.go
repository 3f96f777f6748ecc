package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/daily-report-service/internal/domain"
)

// ErrDuplicateEmail is returned when an account with the email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// SalesRepository defines persistence access for sales accounts.
type SalesRepository interface {
	Create(ctx context.Context, sales *domain.Sales) error
	Update(ctx context.Context, sales *domain.Sales) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	GetByID(ctx context.Context, id int64) (*domain.Sales, error)
	GetByEmail(ctx context.Context, email string) (*domain.Sales, error)
	List(ctx context.Context) ([]domain.Sales, error)
}

type salesRepository struct {
	db DBTX
}

// NewSalesRepository returns a Postgres-backed implementation.
func NewSalesRepository(db DBTX) SalesRepository {
	return &salesRepository{db: db}
}

const salesColumns = `id, name, email, password_hash, department, position, role, created_at, updated_at`

func (r *salesRepository) Create(ctx context.Context, sales *domain.Sales) error {
	const query = `
        INSERT INTO sales (name, email, password_hash, department, position, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		sales.Name,
		sales.Email,
		sales.PasswordHash,
		sales.Department,
		sales.Position,
		string(sales.Role),
	).Scan(&sales.ID, &sales.CreatedAt, &sales.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *salesRepository) Update(ctx context.Context, sales *domain.Sales) error {
	const query = `
        UPDATE sales SET name=$1, email=$2, department=$3, position=$4, role=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		sales.Name,
		sales.Email,
		sales.Department,
		sales.Position,
		string(sales.Role),
		sales.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *salesRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE sales SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *salesRepository) GetByID(ctx context.Context, id int64) (*domain.Sales, error) {
	query := `SELECT ` + salesColumns + ` FROM sales WHERE id=$1`
	return scanSales(r.db.QueryRow(ctx, query, id))
}

func (r *salesRepository) GetByEmail(ctx context.Context, email string) (*domain.Sales, error) {
	query := `SELECT ` + salesColumns + ` FROM sales WHERE email=$1`
	return scanSales(r.db.QueryRow(ctx, query, email))
}

func (r *salesRepository) List(ctx context.Context) ([]domain.Sales, error) {
	query := `SELECT ` + salesColumns + ` FROM sales ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Sales
	for rows.Next() {
		sales, err := scanSales(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sales)
	}
	return result, rows.Err()
}

func scanSales(row pgx.Row) (*domain.Sales, error) {
	var (
		sales domain.Sales
		role  string
	)
	if err := row.Scan(
		&sales.ID,
		&sales.Name,
		&sales.Email,
		&sales.PasswordHash,
		&sales.Department,
		&sales.Position,
		&role,
		&sales.CreatedAt,
		&sales.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sales.Role = domain.Role(role)
	return &sales, nil
}
