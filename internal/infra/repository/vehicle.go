package repository

import (
	"context"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

type VehicleRepository struct{}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{}
}

// Upsert creates or refreshes the vehicle for a normalized plate. Contact
// info follows the latest check-in, including clearing it when omitted.
func (r *VehicleRepository) Upsert(ctx context.Context, q db.DBTX, plate string, email, phone *string) (*shared.VehicleSnapshot, error) {
	const query = `
		INSERT INTO vehicles (license_plate, owner_email, owner_phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (license_plate) DO UPDATE
			SET owner_email = EXCLUDED.owner_email,
			    owner_phone = EXCLUDED.owner_phone,
			    updated_at  = now()
		RETURNING id, license_plate, owner_email, owner_phone`

	var v shared.VehicleSnapshot
	err := q.QueryRow(ctx, query, plate, email, phone).Scan(&v.ID, &v.Plate, &v.OwnerEmail, &v.OwnerPhone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert vehicle", err)
	}
	return &v, nil
}

// EnsureByPlate inserts the vehicle if it does not exist yet, leaving any
// existing contact info untouched. Used when registering permits, where no
// contact data is collected.
func (r *VehicleRepository) EnsureByPlate(ctx context.Context, q db.DBTX, plate string) (*shared.VehicleSnapshot, error) {
	const query = `
		INSERT INTO vehicles (license_plate)
		VALUES ($1)
		ON CONFLICT (license_plate) DO UPDATE
			SET license_plate = EXCLUDED.license_plate
		RETURNING id, license_plate, owner_email, owner_phone`

	var v shared.VehicleSnapshot
	err := q.QueryRow(ctx, query, plate).Scan(&v.ID, &v.Plate, &v.OwnerEmail, &v.OwnerPhone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to ensure vehicle", err)
	}
	return &v, nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	const query = `SELECT id, license_plate, owner_email, owner_phone FROM vehicles WHERE id = $1`

	var v shared.VehicleSnapshot
	err := q.QueryRow(ctx, query, id).Scan(&v.ID, &v.Plate, &v.OwnerEmail, &v.OwnerPhone)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by id", err)
	}
	return &v, nil
}

func (r *VehicleRepository) FindByPlate(ctx context.Context, q db.DBTX, plate string) (*shared.VehicleSnapshot, error) {
	const query = `SELECT id, license_plate, owner_email, owner_phone FROM vehicles WHERE license_plate = $1`

	var v shared.VehicleSnapshot
	err := q.QueryRow(ctx, query, plate).Scan(&v.ID, &v.Plate, &v.OwnerEmail, &v.OwnerPhone)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by plate", err)
	}
	return &v, nil
}
