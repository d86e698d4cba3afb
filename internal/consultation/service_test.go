package consultation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"health-assistant-agent/internal/agent"
	"health-assistant-agent/internal/platform/logger"
)

type fakeSession struct {
	reply string
	err   error
	seen  struct {
		instruction string
		utterance   string
	}
}

func (f *fakeSession) Respond(_ context.Context, _, instruction, utterance string, _ agent.Toolbox) (string, error) {
	f.seen.instruction = instruction
	f.seen.utterance = utterance
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestService(session SessionClient) *Service {
	return NewService(newFakeStore(), &fakeReports{}, session, logger.NewNop())
}

func TestStartConversation(t *testing.T) {
	svc := newTestService(nil)

	id, welcome := svc.StartConversation()
	if id == uuid.Nil {
		t.Fatal("expected a conversation ID")
	}
	if welcome != WelcomeMessage {
		t.Fatalf("welcome = %q", welcome)
	}

	snap, ok := svc.Snapshot(id)
	if !ok {
		t.Fatal("snapshot should find the conversation")
	}
	if snap.Phase != PhaseInfoCollection || snap.Complete || snap.SymptomCount != 0 || snap.PatientID != "" {
		t.Fatalf("fresh snapshot = %+v", snap)
	}
}

func TestProcessUtteranceUnknownConversation(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.ProcessUtterance(context.Background(), uuid.New(), "hello")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestProcessUtteranceWithoutSessionReturnsInstruction(t *testing.T) {
	svc := newTestService(nil)
	id, _ := svc.StartConversation()

	reply, err := svc.ProcessUtterance(context.Background(), id, "my ID is P12345678")
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if !strings.Contains(reply, "Here is the patient's message: my ID is P12345678") {
		t.Fatalf("expected the raw instruction text, got %q", reply)
	}
}

func TestProcessUtteranceDelegatesToSession(t *testing.T) {
	session := &fakeSession{reply: "Welcome back, John."}
	svc := newTestService(session)
	id, _ := svc.StartConversation()

	reply, err := svc.ProcessUtterance(context.Background(), id, "P12345678")
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if reply != "Welcome back, John." {
		t.Fatalf("reply = %q", reply)
	}
	if session.seen.utterance != "P12345678" {
		t.Fatalf("session saw utterance %q", session.seen.utterance)
	}
	if !strings.Contains(session.seen.instruction, "attempt to look it up") {
		t.Fatalf("session saw instruction %q", session.seen.instruction)
	}
}

func TestProcessUtteranceSessionFailureFallsBack(t *testing.T) {
	session := &fakeSession{err: errors.New("provider unreachable")}
	svc := newTestService(session)
	id, _ := svc.StartConversation()

	reply, err := svc.ProcessUtterance(context.Background(), id, "hello")
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if !strings.Contains(reply, "patient ID") {
		t.Fatalf("fallback should be the instruction text, got %q", reply)
	}
}

func TestDiscardConversation(t *testing.T) {
	svc := newTestService(nil)
	id, _ := svc.StartConversation()

	if !svc.Discard(id) {
		t.Fatal("Discard should succeed")
	}
	if svc.Discard(id) {
		t.Fatal("second Discard should fail")
	}
	if _, ok := svc.Snapshot(id); ok {
		t.Fatal("discarded conversation still visible")
	}
	if _, err := svc.ProcessUtterance(context.Background(), id, "hello"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
