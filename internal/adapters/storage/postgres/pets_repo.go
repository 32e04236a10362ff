package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-appointments/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_user_id,
			name, species, breed, sex, age,
			notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		toNullInt(p.Age),
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			age = $6,
			notes = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		toNullInt(p.Age),
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, species, breed, sex, age,
			notes,
			created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	var p pets.Pet
	var age sql.NullInt64
	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&age,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}

	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, species, breed, sex, age,
			notes,
			created_at, updated_at
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		var p pets.Pet
		var age sql.NullInt64
		if err := rows.Scan(
			&p.ID,
			&p.OwnerUserID,
			&p.Name,
			&p.Species,
			&p.Breed,
			&p.Sex,
			&age,
			&p.Notes,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if age.Valid {
			a := int(age.Int64)
			p.Age = &a
		}

		out = append(out, p)
	}

	return out, rows.Err()
}

// age es nullable, lo pasamos como NullInt64 para simplificar
func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
