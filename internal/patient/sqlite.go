package patient

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS patients (
	patient_id  TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	age         INTEGER NOT NULL,
	height_cm   REAL NOT NULL,
	gender      TEXT NOT NULL,
	blood_group TEXT NOT NULL,
	weight_kg   REAL NOT NULL,
	created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the single-file patient database at the
// given path and bootstraps the schema. Writes are synchronously durable.
func NewSQLiteStore(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=FULL"); err != nil {
		return nil, fmt.Errorf("pragma sync: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) Create(ctx context.Context, p CreateParams) (*Patient, error) {
	supplied := p.PatientID != ""
	for {
		id := p.PatientID
		if !supplied {
			id = generateID()
		}
		now := time.Now().UTC()

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO patients (patient_id, name, age, height_cm, gender, blood_group, weight_kg, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Name, p.Age, p.HeightCm, p.Gender, p.BloodGroup, p.WeightKg,
			now.Format(time.RFC3339Nano),
		)
		if err == nil {
			return &Patient{
				PatientID:  id,
				Name:       p.Name,
				Age:        p.Age,
				HeightCm:   p.HeightCm,
				Gender:     p.Gender,
				BloodGroup: p.BloodGroup,
				WeightKg:   p.WeightKg,
				CreatedAt:  now,
			}, nil
		}
		if isSQLiteUnique(err) {
			if supplied {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
			}
			// Generated candidate lost the race, sample a new one.
			continue
		}
		return nil, fmt.Errorf("insert patient: %w", err)
	}
}

func (s *sqliteStore) GetByID(ctx context.Context, patientID string) (*Patient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT patient_id, name, age, height_cm, gender, blood_group, weight_kg, created_at
		 FROM patients WHERE patient_id = ?`, patientID)

	var p Patient
	var created string
	err := row.Scan(&p.PatientID, &p.Name, &p.Age, &p.HeightCm, &p.Gender, &p.BloodGroup, &p.WeightKg, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select patient: %w", err)
	}
	p.CreatedAt = parseTimestamp(created)
	return &p, nil
}

// isSQLiteUnique reports whether err is a primary-key violation. The modernc
// driver surfaces these as generic errors, so we match the message text.
func isSQLiteUnique(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// parseTimestamp tolerates both our RFC3339 writes and the schema's
// CURRENT_TIMESTAMP default. Unparseable values come back as the zero time,
// which downstream renders as an unknown creation date.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
