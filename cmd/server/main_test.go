package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"riftrecap/internal/store"
	"riftrecap/internal/task"
)

// fakeTaskStore records status writes keyed by match and participant.
type fakeTaskStore struct {
	mu       sync.Mutex
	statuses map[string]string
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{statuses: make(map[string]string)}
}

func taskKey(matchID string, participantID int) string {
	return fmt.Sprintf("%s:%d", matchID, participantID)
}

func (f *fakeTaskStore) UpdateStatus(ctx context.Context, matchID string, participantID int, status, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[taskKey(matchID, participantID)] = status
	return nil
}

func (f *fakeTaskStore) GetAnalysisResult(ctx context.Context, matchID string, participantID int) (*store.AnalysisRecord, error) {
	return nil, store.ErrResultNotFound
}

func (f *fakeTaskStore) GetTaskStatus(ctx context.Context, matchID string, participantID int) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[taskKey(matchID, participantID)], "", nil
}

func newTestServer(st taskStore) *server {
	return &server{
		scheduler: task.NewScheduler(nil, task.SchedulerConfig{}, zap.NewNop()),
		db:        st,
		logger:    zap.NewNop(),
	}
}

// TestHandleAnalyze_PendingVisibleImmediately verifies an accepted task can be
// queried through /api/status before any worker picks it up.
func TestHandleAnalyze_PendingVisibleImmediately(t *testing.T) {
	st := newFakeTaskStore()
	s := newTestServer(st)

	body := `{"matchId":"NA1_9001","participantId":1,"region":"na1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleAnalyze(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/api/status/NA1_9001?participant=1", nil)
	statusRR := httptest.NewRecorder()
	s.handleStatus(statusRR, statusReq)

	if statusRR.Code != http.StatusOK {
		t.Fatalf("Expected 200 for a just-accepted task, got %d", statusRR.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(statusRR.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp["status"] != store.StatusPending {
		t.Errorf("Expected pending status, got %q", resp["status"])
	}
}

// TestHandleAnalyze_DuplicateConflict verifies resubmission of the same
// participant maps to 409.
func TestHandleAnalyze_DuplicateConflict(t *testing.T) {
	s := newTestServer(newFakeTaskStore())

	body := `{"matchId":"NA1_9002","participantId":2,"region":"na1"}`
	first := httptest.NewRecorder()
	s.handleAnalyze(first, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))
	if first.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	s.handleAnalyze(second, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))
	if second.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate, got %d", second.Code)
	}
}

// TestHandleAnalyze_ValidatesInput walks rejected request bodies.
func TestHandleAnalyze_ValidatesInput(t *testing.T) {
	s := newTestServer(newFakeTaskStore())

	cases := []string{
		`not json`,
		`{"participantId":1,"region":"na1"}`,
		`{"matchId":"NA1_9003","region":"na1"}`,
		`{"matchId":"NA1_9003","participantId":1}`,
	}
	for _, body := range cases {
		rr := httptest.NewRecorder()
		s.handleAnalyze(rr, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %q, got %d", body, rr.Code)
		}
	}
}
