package vets

import "context"

type Repository interface {
	Create(ctx context.Context, v Veterinarian) error
	Update(ctx context.Context, v Veterinarian) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Veterinarian, error)

	// ListAll ordena por nombre asc (vista admin).
	ListAll(ctx context.Context) ([]Veterinarian, error)
	// ListAvailable sólo los que tienen el flag prendido, nombre asc.
	ListAvailable(ctx context.Context) ([]Veterinarian, error)
}
