package consultation

import (
	"context"
	"encoding/json"
	"fmt"

	"health-assistant-agent/internal/agent"
)

// Tools declares the six callable operations for the conversational session.
func (c *Controller) Tools() []agent.Tool {
	return []agent.Tool{
		{
			Name:        "lookup_patient",
			Description: "lookup a patient by their patient ID",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"patient_id": map[string]any{"type": "string", "description": "The patient ID to lookup"},
				},
				"required": []string{"patient_id"},
			},
		},
		{
			Name:        "create_patient",
			Description: "create a new patient",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": "string", "description": "The patient's full name"},
					"age":         map[string]any{"type": "integer", "description": "The patient's age"},
					"height":      map[string]any{"type": "number", "description": "The patient's height in cm"},
					"gender":      map[string]any{"type": "string", "description": "The patient's gender"},
					"blood_group": map[string]any{"type": "string", "description": "The patient's blood group"},
					"weight":      map[string]any{"type": "number", "description": "The patient's weight in kg"},
				},
				"required": []string{"name", "age", "height", "gender", "blood_group", "weight"},
			},
		},
		{
			Name:        "get_patient_details",
			Description: "get the details of the current patient",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
		{
			Name:        "add_symptom",
			Description: "add a symptom to the patient's symptom list",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"symptom": map[string]any{"type": "string", "description": "Description of the symptom"},
				},
				"required": []string{"symptom"},
			},
		},
		{
			Name:        "get_symptoms",
			Description: "get all collected symptoms for the current patient",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
		{
			Name:        "end_consultation",
			Description: "mark the consultation as complete and generate diagnostic report",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
	}
}

// Invoke dispatches a tool call by name. Operation-level failures come back
// as result text; only an unknown tool or malformed arguments are errors.
func (c *Controller) Invoke(ctx context.Context, name, arguments string) (string, error) {
	switch name {
	case "lookup_patient":
		var args struct {
			PatientID string `json:"patient_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("parse %s arguments: %w", name, err)
		}
		return c.LookupPatient(ctx, args.PatientID), nil

	case "create_patient":
		var args struct {
			Name       string  `json:"name"`
			Age        int     `json:"age"`
			Height     float64 `json:"height"`
			Gender     string  `json:"gender"`
			BloodGroup string  `json:"blood_group"`
			Weight     float64 `json:"weight"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("parse %s arguments: %w", name, err)
		}
		return c.CreatePatient(ctx, args.Name, args.Age, args.Height, args.Gender, args.BloodGroup, args.Weight), nil

	case "get_patient_details":
		return c.GetPatientDetails(), nil

	case "add_symptom":
		var args struct {
			Symptom string `json:"symptom"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("parse %s arguments: %w", name, err)
		}
		return c.AddSymptom(args.Symptom), nil

	case "get_symptoms":
		return c.GetSymptoms(), nil

	case "end_consultation":
		return c.EndConsultation(), nil
	}

	return "", fmt.Errorf("unknown tool %q", name)
}
