package consultation

import "health-assistant-agent/internal/patient"

// Phase is a discrete stage of the intake conversation.
type Phase string

const (
	PhaseInfoCollection Phase = "info_collection"
	PhaseSymptoms       Phase = "symptoms"
	PhaseCompletion     Phase = "completion"
)

// ConversationState is owned by exactly one controller and mutated only in
// response to utterances. Phase moves forward except for the explicit
// completion -> symptoms backtrack; Complete flips false -> true once and
// then freezes the whole state.
type ConversationState struct {
	Phase    Phase
	Patient  *patient.Patient // adopted patient; nil until lookup/create succeeds
	Symptoms []string         // insertion order is preserved in reports
	Complete bool
}

func NewConversationState() ConversationState {
	return ConversationState{Phase: PhaseInfoCollection}
}

func (s ConversationState) HasPatient() bool {
	return s.Patient != nil
}
