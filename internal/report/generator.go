package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"health-assistant-agent/internal/patient"
)

const (
	reportTitle    = "HEALTH ASSISTANT DIAGNOSTIC REPORT"
	separatorWidth = 50

	emptySymptomsLine = "No symptoms were reported during this consultation."
	disclaimerLine    = "NOTE: This is an initial assessment based on reported symptoms. It is not a medical diagnosis. Please consult a healthcare professional for further evaluation."
)

var (
	// ErrFolderCreation labels failures to create the reports directory.
	ErrFolderCreation = errors.New("failed to create reports folder")
	// ErrWrite labels failures to write the report file itself.
	ErrWrite = errors.New("failed to save report")
)

// Generator renders diagnostic reports and persists them under a reports
// directory. Rendering is pure; only the REPORT GENERATED stamp and the
// defaulted consultation time read the clock.
type Generator struct {
	reportsDir string
	now        func() time.Time
}

func NewGenerator(reportsDir string) *Generator {
	return &Generator{reportsDir: reportsDir, now: time.Now}
}

// Render produces the full report text for a patient and their reported
// symptoms. A zero consultationTime means "now". It never fails: a nil
// symptom list renders the same as an empty one.
func (g *Generator) Render(p patient.Patient, symptoms []string, consultationTime time.Time) string {
	if consultationTime.IsZero() {
		consultationTime = g.now()
	}

	var b strings.Builder
	b.WriteString(reportTitle + "\n")
	b.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")
	fmt.Fprintf(&b, "CONSULTATION DATE: %s\n", consultationTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "PATIENT ID: %s\n\n", p.PatientID)
	b.WriteString(formatPatientInfo(p))
	b.WriteString("\n")
	b.WriteString(formatSymptoms(symptoms))
	b.WriteString("\n")
	fmt.Fprintf(&b, "REPORT GENERATED: %s\n", g.now().Format("2006-01-02 15:04:05"))
	b.WriteString(disclaimerLine + "\n")
	return b.String()
}

func formatPatientInfo(p patient.Patient) string {
	created := "Unknown"
	if !p.CreatedAt.IsZero() {
		created = p.CreatedAt.Format("2006-01-02")
	}

	var b strings.Builder
	b.WriteString("PATIENT INFORMATION:\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Age: %d years\n", p.Age)
	fmt.Fprintf(&b, "Height: %.1f cm\n", p.HeightCm)
	fmt.Fprintf(&b, "Weight: %.1f kg\n", p.WeightKg)
	fmt.Fprintf(&b, "Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "Blood Group: %s\n", p.BloodGroup)
	fmt.Fprintf(&b, "Profile Created: %s\n", created)
	return b.String()
}

func formatSymptoms(symptoms []string) string {
	var b strings.Builder
	b.WriteString("SYMPTOMS REPORTED:\n")
	if len(symptoms) == 0 {
		b.WriteString(emptySymptomsLine + "\n")
		return b.String()
	}
	for i, s := range symptoms {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

// BuildFilename builds a collision-resistant filename of the form
// <SanitizedName>_<YYYYMMDD>_<HHMMSS>_report.txt. Two consultations for the
// same patient within the same second collide; that boundary is accepted.
func (g *Generator) BuildFilename(patientName string, consultationTime time.Time) string {
	return fmt.Sprintf("%s_%s_report.txt", sanitizeName(patientName), consultationTime.Format("20060102_150405"))
}

// sanitizeName collapses each whitespace run to one underscore and strips
// characters that are illegal in filenames, plus apostrophes. Hyphens stay.
func sanitizeName(name string) string {
	joined := strings.Join(strings.Fields(name), "_")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/:*?"<>|'`, r) {
			return -1
		}
		return r
	}, joined)
}

// Save writes report content under the reports directory, creating the
// directory (and parents) first. A zero consultationTime means "now".
func (g *Generator) Save(content, patientName string, consultationTime time.Time) (string, error) {
	if consultationTime.IsZero() {
		consultationTime = g.now()
	}
	if err := os.MkdirAll(g.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFolderCreation, err)
	}
	path := filepath.Join(g.reportsDir, g.BuildFilename(patientName, consultationTime))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return path, nil
}

// GenerateAndSave renders and persists a report in one step. When
// consultationTime is zero the clock is sampled once, so the report body and
// the filename always carry the same instant.
func (g *Generator) GenerateAndSave(p patient.Patient, symptoms []string, consultationTime time.Time) (string, error) {
	if consultationTime.IsZero() {
		consultationTime = g.now()
	}
	content := g.Render(p, symptoms, consultationTime)
	return g.Save(content, p.Name, consultationTime)
}
