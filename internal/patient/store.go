package patient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

// ErrDuplicateID is returned when an insert would reuse an existing patient ID.
var ErrDuplicateID = errors.New("patient id already exists")

// CreateParams carries the fields for a new patient record. PatientID is
// optional: when empty, the store generates a fresh one.
type CreateParams struct {
	Name       string
	Age        int
	HeightCm   float64
	Gender     string
	BloodGroup string
	WeightKg   float64
	PatientID  string
}

// Store is durable storage for patient records. GetByID returns (nil, nil)
// on a lookup miss: a missing record is a valid outcome, not an error.
type Store interface {
	Create(ctx context.Context, p CreateParams) (*Patient, error)
	GetByID(ctx context.Context, patientID string) (*Patient, error)
	Close() error
}

// generateID samples a candidate patient ID in the format P12345678.
// Uniqueness is enforced by the insert, not here; callers resample on a
// duplicate-key failure. The space of 9x10^7 IDs makes collisions rare
// enough that the retry loop is effectively unbounded-but-instant.
func generateID() string {
	return fmt.Sprintf("P%08d", 10000000+rand.Intn(90000000))
}
