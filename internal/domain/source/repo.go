package source

import "context"

// Repository provides read-only access to the raw operational snapshot.
// The snapshot is owned by an upstream system; nothing here mutates it.
type Repository interface {
	ListEncounters(ctx context.Context) ([]*RawEncounter, error)
	ListPhysicians(ctx context.Context) ([]*Physician, error)
	ListPatients(ctx context.Context) ([]*Patient, error)
	ListAdmissionTypes(ctx context.Context) ([]*AdmissionType, error)
	ListDischargeTypes(ctx context.Context) ([]*DischargeType, error)
}
