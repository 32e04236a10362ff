package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-appointments/internal/domain/vets"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

func (r *VetsRepo) Create(ctx context.Context, v vets.Veterinarian) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO veterinarians (
			id, name, specialization, available,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		v.ID,
		v.Name,
		v.Specialization,
		v.Available,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VetsRepo) Update(ctx context.Context, v vets.Veterinarian) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE veterinarians
		SET
			name = $2,
			specialization = $3,
			available = $4,
			updated_at = $5
		WHERE id = $1
	`,
		v.ID,
		v.Name,
		v.Specialization,
		v.Available,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vets.ErrNotFound
	}
	return nil
}

func (r *VetsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return vets.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM veterinarians
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vets.ErrNotFound
	}
	return nil
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vets.Veterinarian{}, vets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, specialization, available,
			created_at, updated_at
		FROM veterinarians
		WHERE id = $1
	`, id)

	var v vets.Veterinarian
	if err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Specialization,
		&v.Available,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return vets.Veterinarian{}, vets.ErrNotFound
		}
		return vets.Veterinarian{}, err
	}

	return v, nil
}

func (r *VetsRepo) ListAll(ctx context.Context) ([]vets.Veterinarian, error) {
	return r.listWhere(ctx, "")
}

func (r *VetsRepo) ListAvailable(ctx context.Context) ([]vets.Veterinarian, error) {
	return r.listWhere(ctx, "WHERE available = TRUE")
}

func (r *VetsRepo) listWhere(ctx context.Context, where string) ([]vets.Veterinarian, error) {
	q := `
		SELECT
			id, name, specialization, available,
			created_at, updated_at
		FROM veterinarians
	` + where + `
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vets.Veterinarian, 0)
	for rows.Next() {
		var v vets.Veterinarian
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Specialization,
			&v.Available,
			&v.CreatedAt,
			&v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, rows.Err()
}
