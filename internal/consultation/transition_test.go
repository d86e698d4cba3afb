package consultation

import (
	"strings"
	"testing"

	"health-assistant-agent/internal/patient"
)

func stateWithPatient(phase Phase, symptoms ...string) ConversationState {
	return ConversationState{
		Phase:    phase,
		Patient:  &patient.Patient{PatientID: "P12345678", Name: "John Doe"},
		Symptoms: symptoms,
	}
}

func TestAdvanceNoPatientResolvesIdentity(t *testing.T) {
	for _, phase := range []Phase{PhaseInfoCollection, PhaseSymptoms, PhaseCompletion} {
		s := ConversationState{Phase: phase}

		next, instr := Advance(s, "hello, my ID is P12345678")
		if instr.Kind != InstructResolveIdentity {
			t.Fatalf("phase %s: kind = %s, want resolve_identity", phase, instr.Kind)
		}
		if next.Phase != phase {
			t.Fatalf("phase %s changed to %s without a patient", phase, next.Phase)
		}
		if !strings.Contains(instr.Content, "P12345678") {
			t.Fatal("identity instruction should echo the utterance")
		}
	}
}

func TestAdvanceInfoCollectionToSymptoms(t *testing.T) {
	next, instr := Advance(stateWithPatient(PhaseInfoCollection), "I feel unwell")
	if next.Phase != PhaseSymptoms {
		t.Fatalf("phase = %s, want symptoms", next.Phase)
	}
	if instr.Kind != InstructBeginSymptoms {
		t.Fatalf("kind = %s, want begin_symptoms", instr.Kind)
	}
	if !strings.Contains(instr.Content, "I feel unwell") {
		t.Fatal("instruction should echo the utterance")
	}
}

func TestAdvanceSymptomsCompletionPhrases(t *testing.T) {
	phrases := []string{
		"that's all",
		"THAT'S ALL for today",
		"nothing else, thanks",
		"I'm done",
		"we can complete",
		"please finish",
		"end consultation",
	}
	for _, utterance := range phrases {
		next, instr := Advance(stateWithPatient(PhaseSymptoms, "headache"), utterance)
		if next.Phase != PhaseCompletion {
			t.Fatalf("%q: phase = %s, want completion", utterance, next.Phase)
		}
		if instr.Kind != InstructConfirmCompletion {
			t.Fatalf("%q: kind = %s, want confirm_completion", utterance, instr.Kind)
		}
	}
}

func TestAdvanceFirstSymptom(t *testing.T) {
	next, instr := Advance(stateWithPatient(PhaseSymptoms), "I have a headache")
	if next.Phase != PhaseSymptoms {
		t.Fatalf("phase = %s, want symptoms", next.Phase)
	}
	if instr.Kind != InstructCollectSymptom {
		t.Fatalf("kind = %s, want collect_symptom", instr.Kind)
	}
}

func TestAdvanceSymptomFollowUpListsSymptoms(t *testing.T) {
	next, instr := Advance(stateWithPatient(PhaseSymptoms, "headache", "fever"), "it got worse at night")
	if next.Phase != PhaseSymptoms {
		t.Fatalf("phase = %s, want symptoms", next.Phase)
	}
	if instr.Kind != InstructFollowUp {
		t.Fatalf("kind = %s, want follow_up", instr.Kind)
	}
	if !strings.Contains(instr.Content, "headache, fever") {
		t.Fatalf("follow-up should list symptoms so far:\n%s", instr.Content)
	}
}

func TestAdvanceCompletionAffirmative(t *testing.T) {
	for _, utterance := range []string{"yes", "YES please", "generate it", "complete", "done", "finish"} {
		next, instr := Advance(stateWithPatient(PhaseCompletion, "headache"), utterance)
		if next.Phase != PhaseCompletion {
			t.Fatalf("%q: phase = %s, want completion", utterance, next.Phase)
		}
		if instr.Kind != InstructGenerateReport {
			t.Fatalf("%q: kind = %s, want generate_report", utterance, instr.Kind)
		}
		if !strings.Contains(instr.Content, "end_consultation") {
			t.Fatal("report instruction should name the end_consultation operation")
		}
	}
}

func TestAdvanceCompletionBacktrack(t *testing.T) {
	next, instr := Advance(stateWithPatient(PhaseCompletion, "headache"), "actually I also have a sore throat")
	if next.Phase != PhaseSymptoms {
		t.Fatalf("phase = %s, want symptoms backtrack", next.Phase)
	}
	if instr.Kind != InstructResumeSymptoms {
		t.Fatalf("kind = %s, want resume_symptoms", instr.Kind)
	}
}

func TestAdvanceCompleteShortCircuits(t *testing.T) {
	s := stateWithPatient(PhaseCompletion, "headache")
	s.Complete = true

	for _, utterance := range []string{"hello", "that's all", "yes", "new symptom"} {
		next, instr := Advance(s, utterance)
		if instr.Kind != InstructAlreadyComplete {
			t.Fatalf("%q: kind = %s, want already_complete", utterance, instr.Kind)
		}
		if next.Phase != s.Phase || len(next.Symptoms) != len(s.Symptoms) || next.Patient != s.Patient {
			t.Fatalf("%q: completed state mutated", utterance)
		}
		if !strings.Contains(instr.Content, "consultation has been completed") {
			t.Fatal("expected fixed acknowledgment")
		}
	}
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	s := stateWithPatient(PhaseSymptoms, "headache")

	if _, _ = Advance(s, "that's all"); s.Phase != PhaseSymptoms {
		t.Fatal("Advance mutated its input state")
	}
}
