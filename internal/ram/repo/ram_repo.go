package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/entity"
)

var ErrNotFound = errors.New("ram not found")

// Repo is the repository implementation for RAM records backed by PostgreSQL.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

const ramColumns = `id, name, brand, type, capacity_gb, speed_mhz, price, created_at, updated_at`

// List returns records oldest first, optionally filtered by brand and type.
func (r *Repo) List(ctx context.Context, f entity.Filter) ([]entity.Ram, error) {
	var where []string
	var args []any
	if f.Brand != "" {
		args = append(args, f.Brand)
		where = append(where, fmt.Sprintf("brand=$%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type=$%d", len(args)))
	}
	q := `SELECT ` + ramColumns + ` FROM rams`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rams := []entity.Ram{}
	if err := r.db.SelectContext(ctx, &rams, q, args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rams, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*entity.Ram, error) {
	var m entity.Ram
	if err := r.db.GetContext(ctx, &m, `SELECT `+ramColumns+` FROM rams WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, m *entity.Ram) error {
	const q = `INSERT INTO rams (id, name, brand, type, capacity_gb, speed_mhz, price, created_at, updated_at)
		VALUES (:id, :name, :brand, :type, :capacity_gb, :speed_mhz, :price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, m); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, m *entity.Ram) error {
	const q = `UPDATE rams SET name=:name, brand=:brand, type=:type, capacity_gb=:capacity_gb,
		speed_mhz=:speed_mhz, price=:price, updated_at=:updated_at WHERE id=:id`
	res, err := r.db.NamedExecContext(ctx, q, m)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rams WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
