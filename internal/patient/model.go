package patient

import "time"

// Patient is a demographic record. Records are write-once: the ID is
// assigned at creation and never reused, and there is no update or delete.
type Patient struct {
	PatientID  string    `json:"patient_id" db:"patient_id"`
	Name       string    `json:"name" db:"name"`
	Age        int       `json:"age" db:"age"`
	HeightCm   float64   `json:"height_cm" db:"height_cm"`
	Gender     string    `json:"gender" db:"gender"`
	BloodGroup string    `json:"blood_group" db:"blood_group"`
	WeightKg   float64   `json:"weight_kg" db:"weight_kg"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
