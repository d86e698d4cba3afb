package consultation

import "strings"

// InstructionKind identifies which branch of the phase machine produced an
// instruction, so callers and tests don't have to match on prompt text.
type InstructionKind string

const (
	InstructResolveIdentity   InstructionKind = "resolve_identity"
	InstructBeginSymptoms     InstructionKind = "begin_symptoms"
	InstructCollectSymptom    InstructionKind = "collect_symptom"
	InstructFollowUp          InstructionKind = "follow_up"
	InstructConfirmCompletion InstructionKind = "confirm_completion"
	InstructGenerateReport    InstructionKind = "generate_report"
	InstructResumeSymptoms    InstructionKind = "resume_symptoms"
	InstructAlreadyComplete   InstructionKind = "already_complete"
)

// Instruction is the message forwarded to the conversational session after
// each user utterance.
type Instruction struct {
	Kind    InstructionKind
	Content string
}

// The phrase sets are a fixed lexical contract: case-insensitive substring
// match, nothing smarter. The session LLM in front of this machine is the
// layer that absorbs phrasing variety.
var (
	completionPhrases  = []string{"that's all", "nothing else", "done", "complete", "finish", "end consultation"}
	affirmativePhrases = []string{"yes", "generate", "complete", "done", "finish"}
)

func matchesAny(utterance string, phrases []string) bool {
	lower := strings.ToLower(utterance)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Advance is the pure phase transition: given the current state and one user
// utterance it returns the next state and the instruction for the session.
// It never touches storage; adopting a patient and recording symptoms happen
// through the callable operations the session invokes separately.
func Advance(s ConversationState, utterance string) (ConversationState, Instruction) {
	if s.Complete {
		return s, Instruction{InstructAlreadyComplete, completedAcknowledgment}
	}

	if !s.HasPatient() {
		return s, Instruction{InstructResolveIdentity, lookupPatientMessage(utterance)}
	}

	switch s.Phase {
	case PhaseInfoCollection:
		s.Phase = PhaseSymptoms
		return s, Instruction{InstructBeginSymptoms, symptomCollectionMessage(utterance)}

	case PhaseSymptoms:
		if matchesAny(utterance, completionPhrases) {
			s.Phase = PhaseCompletion
			return s, Instruction{InstructConfirmCompletion, completionConfirmMessage(utterance)}
		}
		if len(s.Symptoms) == 0 {
			return s, Instruction{InstructCollectSymptom, firstSymptomMessage(utterance)}
		}
		return s, Instruction{InstructFollowUp, symptomFollowUpMessage(s.Symptoms, utterance)}

	case PhaseCompletion:
		if matchesAny(utterance, affirmativePhrases) {
			return s, Instruction{InstructGenerateReport, reportGenerationText}
		}
		s.Phase = PhaseSymptoms
		return s, Instruction{InstructResumeSymptoms, resumeSymptomsMessage(utterance)}
	}

	return s, Instruction{InstructResolveIdentity, lookupPatientMessage(utterance)}
}
