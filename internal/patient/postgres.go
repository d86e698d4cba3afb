package patient

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection and applies the embedded schema
// migrations. The caller owns the connection lifecycle up to Close.
func NewPostgresStore(db *sql.DB) (Store, error) {
	if err := migrateUp(db); err != nil {
		return nil, err
	}
	return &postgresStore{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}

func (s *postgresStore) Create(ctx context.Context, p CreateParams) (*Patient, error) {
	supplied := p.PatientID != ""
	for {
		id := p.PatientID
		if !supplied {
			id = generateID()
		}

		var created time.Time
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO patients (patient_id, name, age, height_cm, gender, blood_group, weight_kg)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING created_at`,
			id, p.Name, p.Age, p.HeightCm, p.Gender, p.BloodGroup, p.WeightKg,
		).Scan(&created)
		if err == nil {
			return &Patient{
				PatientID:  id,
				Name:       p.Name,
				Age:        p.Age,
				HeightCm:   p.HeightCm,
				Gender:     p.Gender,
				BloodGroup: p.BloodGroup,
				WeightKg:   p.WeightKg,
				CreatedAt:  created,
			}, nil
		}
		if isPostgresUnique(err) {
			if supplied {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
			}
			continue
		}
		return nil, fmt.Errorf("insert patient: %w", err)
	}
}

func (s *postgresStore) GetByID(ctx context.Context, patientID string) (*Patient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT patient_id, name, age, height_cm, gender, blood_group, weight_kg, created_at
		 FROM patients WHERE patient_id = $1`, patientID)

	var p Patient
	err := row.Scan(&p.PatientID, &p.Name, &p.Age, &p.HeightCm, &p.Gender, &p.BloodGroup, &p.WeightKg, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select patient: %w", err)
	}
	return &p, nil
}

func isPostgresUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
