package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"health-assistant-agent/internal/patient"
	"health-assistant-agent/internal/platform/logger"
)

// ReportGenerator is the slice of the report service the controller needs.
// A zero consultationTime asks the generator to sample the clock itself.
type ReportGenerator interface {
	GenerateAndSave(p patient.Patient, symptoms []string, consultationTime time.Time) (string, error)
}

// Controller drives one conversation: it owns the ConversationState, decides
// the instruction for each utterance via Advance, and exposes the callable
// operations the conversational session invokes by name. Operations report
// failures as returned text, never as faults reaching the session.
type Controller struct {
	store   patient.Store
	reports ReportGenerator
	log     *logger.Logger
	state   ConversationState
}

func NewController(store patient.Store, reports ReportGenerator, log *logger.Logger) *Controller {
	return &Controller{
		store:   store,
		reports: reports,
		log:     log,
		state:   NewConversationState(),
	}
}

// State returns a snapshot of the conversation state.
func (c *Controller) State() ConversationState {
	return c.state
}

func (c *Controller) IsComplete() bool {
	return c.state.Complete
}

// HandleUtterance advances the phase machine for one user utterance and
// returns the instruction destined for the conversational session.
func (c *Controller) HandleUtterance(utterance string) Instruction {
	next, instr := Advance(c.state, utterance)
	c.state = next
	c.log.Debug("utterance handled", "phase", string(c.state.Phase), "instruction", string(instr.Kind))
	return instr
}

// LookupPatient fetches a record by ID and adopts it on a hit. A miss leaves
// the state unchanged.
func (c *Controller) LookupPatient(ctx context.Context, patientID string) string {
	c.log.Info("lookup patient", "patient_id", patientID)

	result, err := c.store.GetByID(ctx, patientID)
	if err != nil {
		c.log.Error("lookup patient failed", "patient_id", patientID, "error", err)
		return "Failed to look up patient: " + err.Error()
	}
	if result == nil {
		return "Patient not found"
	}

	c.state.Patient = result
	return "The patient details are: " + c.patientDetails()
}

// CreatePatient creates a new record and adopts it. On a store failure the
// active patient stays unset.
func (c *Controller) CreatePatient(ctx context.Context, name string, age int, heightCm float64, gender, bloodGroup string, weightKg float64) string {
	c.log.Info("create patient", "name", name, "age", age, "height", heightCm,
		"gender", gender, "blood_group", bloodGroup, "weight", weightKg)

	result, err := c.store.Create(ctx, patient.CreateParams{
		Name:       name,
		Age:        age,
		HeightCm:   heightCm,
		Gender:     gender,
		BloodGroup: bloodGroup,
		WeightKg:   weightKg,
	})
	if err != nil {
		c.log.Error("create patient failed", "error", err)
		return "Failed to create patient: " + err.Error()
	}

	c.state.Patient = result
	return "Patient created! Your patient ID is: " + result.PatientID
}

// GetPatientDetails renders the adopted record's non-empty fields, or
// nothing when no patient is adopted.
func (c *Controller) GetPatientDetails() string {
	c.log.Info("get patient details")

	details := c.patientDetails()
	if details == "" {
		return ""
	}
	return "The patient details are: " + details
}

func (c *Controller) patientDetails() string {
	p := c.state.Patient
	if p == nil {
		return ""
	}

	var b strings.Builder
	addStr := func(field, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", field, value)
		}
	}
	addStr("patient_id", p.PatientID)
	addStr("name", p.Name)
	if p.Age > 0 {
		fmt.Fprintf(&b, "age: %d\n", p.Age)
	}
	if p.HeightCm > 0 {
		fmt.Fprintf(&b, "height: %g\n", p.HeightCm)
	}
	addStr("gender", p.Gender)
	addStr("blood_group", p.BloodGroup)
	if p.WeightKg > 0 {
		fmt.Fprintf(&b, "weight: %g\n", p.WeightKg)
	}
	return b.String()
}

// AddSymptom appends to the symptom sequence, preserving insertion order.
func (c *Controller) AddSymptom(symptom string) string {
	c.state.Symptoms = append(c.state.Symptoms, symptom)
	c.log.Info("add symptom", "symptom", symptom, "total", len(c.state.Symptoms))
	return fmt.Sprintf("Symptom added: %s. Total symptoms recorded: %d", symptom, len(c.state.Symptoms))
}

// GetSymptoms renders the numbered symptom list in insertion order.
func (c *Controller) GetSymptoms() string {
	c.log.Info("get symptoms", "count", len(c.state.Symptoms))

	if len(c.state.Symptoms) == 0 {
		return "No symptoms have been recorded yet."
	}
	var b strings.Builder
	b.WriteString("Recorded symptoms:\n")
	for i, s := range c.state.Symptoms {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

// EndConsultation generates and saves the diagnostic report. Once a patient
// is adopted the consultation always completes from the user's perspective:
// a report fault is surfaced in the reply and logged, but never blocks the
// completion flag.
func (c *Controller) EndConsultation() string {
	c.log.Info("end consultation")

	if !c.state.HasPatient() {
		return "Cannot end consultation: No patient information available."
	}

	path, err := c.reports.GenerateAndSave(*c.state.Patient, c.state.Symptoms, time.Time{})
	c.state.Complete = true
	if err != nil {
		c.log.Error("report generation failed", "patient_id", c.state.Patient.PatientID, "error", err)
		return fmt.Sprintf("Consultation marked as complete, but there was an issue generating your report: %v. Please contact support if needed.", err)
	}

	c.log.Info("report saved", "patient_id", c.state.Patient.PatientID, "path", path)
	return fmt.Sprintf("Consultation complete! Your diagnostic report has been generated and saved. "+
		"Thank you for using our health assistant service. Report saved as: %s", path)
}
