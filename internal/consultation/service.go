package consultation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"health-assistant-agent/internal/agent"
	"health-assistant-agent/internal/patient"
	"health-assistant-agent/internal/platform/logger"
)

// ErrConversationNotFound is returned for turns addressed to an unknown or
// already discarded conversation.
var ErrConversationNotFound = errors.New("conversation not found")

// SessionClient phrases the next spoken turn from the controller's
// instructional message, invoking the toolbox operations as needed.
type SessionClient interface {
	Respond(ctx context.Context, systemPrompt, instruction, utterance string, tools agent.Toolbox) (string, error)
}

// Service is the conversation registry. Each conversation owns a private
// controller; turns within one conversation are strictly sequential.
type Service struct {
	store   patient.Store
	reports ReportGenerator
	session SessionClient
	log     *logger.Logger

	mu    sync.Mutex
	convs map[uuid.UUID]*conversation
}

type conversation struct {
	mu         sync.Mutex // one in-flight turn at a time
	controller *Controller
}

// NewService builds the conversation service. session may be nil; turns then
// return the controller's instructional message directly, which keeps the
// core usable without a reachable model provider.
func NewService(store patient.Store, reports ReportGenerator, session SessionClient, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		reports: reports,
		session: session,
		log:     log,
		convs:   make(map[uuid.UUID]*conversation),
	}
}

// StartConversation registers a fresh conversation and returns its ID along
// with the welcome instruction for the session's opening turn.
func (s *Service) StartConversation() (uuid.UUID, string) {
	id := uuid.New()
	conv := &conversation{
		controller: NewController(s.store, s.reports, s.log.With("conversation_id", id.String())),
	}

	s.mu.Lock()
	s.convs[id] = conv
	s.mu.Unlock()

	s.log.Info("conversation started", "conversation_id", id.String())
	return id, WelcomeMessage
}

// ProcessUtterance handles one full turn: advance the phase machine, then
// let the session phrase the reply with the instruction as grounding. If the
// session fails the instruction text itself is the reply.
func (s *Service) ProcessUtterance(ctx context.Context, id uuid.UUID, utterance string) (string, error) {
	conv, ok := s.get(id)
	if !ok {
		return "", ErrConversationNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	instr := conv.controller.HandleUtterance(utterance)
	if s.session == nil {
		return instr.Content, nil
	}

	reply, err := s.session.Respond(ctx, Instructions, instr.Content, utterance, conv.controller)
	if err != nil {
		s.log.Warn("session client failed, replying with instruction text",
			"conversation_id", id.String(), "error", err)
		return instr.Content, nil
	}
	return reply, nil
}

// Snapshot is a read-only view of one conversation for the HTTP surface.
type Snapshot struct {
	Phase        Phase  `json:"phase"`
	PatientID    string `json:"patient_id,omitempty"`
	SymptomCount int    `json:"symptom_count"`
	Complete     bool   `json:"complete"`
}

func (s *Service) Snapshot(id uuid.UUID) (Snapshot, bool) {
	conv, ok := s.get(id)
	if !ok {
		return Snapshot{}, false
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	state := conv.controller.State()
	snap := Snapshot{
		Phase:        state.Phase,
		SymptomCount: len(state.Symptoms),
		Complete:     state.Complete,
	}
	if state.Patient != nil {
		snap.PatientID = state.Patient.PatientID
	}
	return snap, true
}

// Discard drops a conversation; its state is gone with it.
func (s *Service) Discard(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return false
	}
	delete(s.convs, id)
	s.log.Info("conversation discarded", "conversation_id", id.String())
	return true
}

func (s *Service) get(id uuid.UUID) (*conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	return conv, ok
}
