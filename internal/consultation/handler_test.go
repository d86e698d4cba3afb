package consultation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(newTestService(nil)))
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerStartAndChat(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/consultation", struct{}{})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	var started StartConversationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if started.ConversationID == "" || started.Message == "" {
		t.Fatalf("start response = %+v", started)
	}

	rec = postJSON(t, router, "/consultation/chat", ChatRequest{
		ConversationID: started.ConversationID,
		Text:           "hello",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d: %s", rec.Code, rec.Body.String())
	}
	var chat ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &chat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chat.Response == "" {
		t.Fatal("expected a non-empty reply")
	}
}

func TestHandlerChatBadRequests(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/consultation/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/consultation/chat", ChatRequest{ConversationID: "not-a-uuid", Text: "hi"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/consultation/chat", ChatRequest{
		ConversationID: "00000000-0000-0000-0000-000000000001",
		Text:           "hi",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown conversation status = %d", rec.Code)
	}
}

func TestHandlerSnapshotAndDelete(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/consultation", struct{}{})
	var started StartConversationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/consultation/"+started.ConversationID, nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", rec2.Code)
	}
	var snap Snapshot
	if err := json.Unmarshal(rec2.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Phase != PhaseInfoCollection {
		t.Fatalf("snapshot phase = %s", snap.Phase)
	}

	req = httptest.NewRequest(http.MethodDelete, "/consultation/"+started.ConversationID, nil)
	rec3 := httptest.NewRecorder()
	router.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec3.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/consultation/"+started.ConversationID, nil)
	rec4 := httptest.NewRecorder()
	router.ServeHTTP(rec4, req)
	if rec4.Code != http.StatusNotFound {
		t.Fatalf("snapshot after delete status = %d", rec4.Code)
	}
}
