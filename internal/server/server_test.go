package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/evomax/internal/ga"
	"github.com/cwbudde/evomax/internal/store"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	var fs *store.FSStore
	if withStore {
		var err error
		fs, err = store.NewFSStore(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
	}
	return NewServer(":0", fs)
}

func postJob(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.handleJobs(w, req)
	return w
}

// waitForState polls until the job reaches a terminal state or the timeout
// expires.
func waitForState(t *testing.T, s *Server, jobID string, want JobState) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, exists := s.jobManager.GetJob(jobID)
		if !exists {
			t.Fatalf("Job %s disappeared", jobID)
		}
		var state JobState
		s.jobManager.UpdateJob(jobID, func(j *Job) { state = j.State })
		if state == want {
			return job
		}
		if state == StateFailed && want != StateFailed {
			t.Fatalf("Job failed unexpectedly")
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Job %s never reached state %s", jobID, want)
	return nil
}

func TestHandleCreateJob(t *testing.T) {
	s := newTestServer(t, false)

	w := postJob(t, s, `{"objective":"negsquare","dim":1,"lower":-10,"upper":10,"popSize":20,"eliteCount":2,"generations":10,"mutationProb":0.3,"mutationScale":1.0,"seed":42}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}

	done := waitForState(t, s, job.ID, StateCompleted)
	if done == nil {
		t.Fatal("Job did not complete")
	}
}

func TestHandleCreateJob_Defaults(t *testing.T) {
	s := newTestServer(t, false)

	w := postJob(t, s, `{}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if job.Config.Objective != "negsquare" {
		t.Errorf("Expected default objective negsquare, got %s", job.Config.Objective)
	}
	if job.Config.Dim != 2 {
		t.Errorf("Expected default dim 2, got %d", job.Config.Dim)
	}
	if job.Config.Lower != -10 || job.Config.Upper != 10 {
		t.Errorf("Expected default bounds [-10,10], got [%f,%f]", job.Config.Lower, job.Config.Upper)
	}
	if job.Config.PopSize != 60 {
		t.Errorf("Expected default popSize 60, got %d", job.Config.PopSize)
	}
	if job.Config.MutationScale != 1.0 {
		t.Errorf("Expected default mutationScale (upper-lower)/20, got %f", job.Config.MutationScale)
	}
}

func TestHandleCreateJob_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{not json`},
		{"unknown objective", `{"objective":"bogus"}`},
		{"inverted bounds", `{"lower":10,"upper":-10}`},
		{"pop size too small", `{"popSize":1,"eliteCount":-1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, false)
			w := postJob(t, s, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestHandleListJobs(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	s.handleJobs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var jobs []Job
	if err := json.Unmarshal(w.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("Expected no jobs, got %d", len(jobs))
	}

	s.jobManager.CreateJob(testJobConfig())
	w = httptest.NewRecorder()
	s.handleJobs(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("Expected 1 job, got %d", len(jobs))
	}
}

func TestHandleJobs_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	s.handleJobs(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestHandleGetJobStatus(t *testing.T) {
	s := newTestServer(t, false)
	job := s.jobManager.CreateJob(testJobConfig())
	s.jobManager.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.Generation = 7
		j.BestFitness = -0.04
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/status", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var status map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if status["id"] != job.ID {
		t.Errorf("ID mismatch: expected %s, got %v", job.ID, status["id"])
	}
	if status["state"] != string(StateRunning) {
		t.Errorf("Expected state running, got %v", status["state"])
	}
	if status["generation"].(float64) != 7 {
		t.Errorf("Expected generation 7, got %v", status["generation"])
	}
}

func TestHandleGetJobStatus_NotFound(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nonexistent/status", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandleJobsWithID_Routing(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing ID, got %d", w.Code)
	}

	job := s.jobManager.CreateJob(testJobConfig())
	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/bogus", nil)
	w = httptest.NewRecorder()
	s.handleJobsWithID(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown subpath, got %d", w.Code)
	}

	// A bare job ID routes to status.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	w = httptest.NewRecorder()
	s.handleJobsWithID(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for bare ID, got %d", w.Code)
	}
}

func TestHandleGetJobHistory(t *testing.T) {
	s := newTestServer(t, false)
	job := s.jobManager.CreateJob(testJobConfig())
	s.jobManager.UpdateJob(job.ID, func(j *Job) {
		j.History = []ga.GenerationStats{
			{Generation: 0, BestFitness: -4, MeanFitness: -20, MeanDiversity: 8},
			{Generation: 1, BestFitness: -1, MeanFitness: -10, MeanDiversity: 6},
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/history", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var history []ga.GenerationStats
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if history[1].BestFitness != -1 {
		t.Errorf("Expected bestFitness -1, got %f", history[1].BestFitness)
	}
}

func TestHandleGetJobHistory_NotFound(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nonexistent/history", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandleListRuns(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	s.handleListRuns(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var infos []store.RunInfo
	if err := json.Unmarshal(w.Body.Bytes(), &infos); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no runs, got %d", len(infos))
	}
}

func TestHandleListRuns_PersistenceDisabled(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	s.handleListRuns(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without store, got %d", w.Code)
	}
}

func TestHandleListRuns_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	s.handleListRuns(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestHandleGetJobStatus_ConcurrentWithWorker(t *testing.T) {
	// Status and list reads must stay safe while the worker goroutine
	// updates the job; the handlers only ever see manager snapshots.
	s := newTestServer(t, false)

	w := postJob(t, s, `{"objective":"negsquare","dim":1,"lower":-10,"upper":10,"popSize":20,"eliteCount":2,"generations":50,"mutationProb":0.3,"mutationScale":1.0,"seed":42}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/status", nil)
			rec := httptest.NewRecorder()
			s.handleJobsWithID(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("Status read failed mid-run: %d", rec.Code)
				return
			}

			req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
			rec = httptest.NewRecorder()
			s.handleJobs(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("List read failed mid-run: %d", rec.Code)
				return
			}
		}
	}()

	<-done
	waitForState(t, s, job.ID, StateCompleted)
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, false)
	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected preflight status 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS allow-origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected wrapped handler to run, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS header on normal request")
	}
}

func TestEndToEndJobLifecycle(t *testing.T) {
	s := newTestServer(t, true)

	w := postJob(t, s, `{"objective":"negsquare","dim":1,"lower":-10,"upper":10,"popSize":20,"eliteCount":2,"generations":10,"mutationProb":0.3,"mutationScale":1.0,"seed":42}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	waitForState(t, s, job.ID, StateCompleted)

	// Status reflects the finished run.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/status", nil)
	w2 := httptest.NewRecorder()
	s.handleJobsWithID(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w2.Code)
	}
	if !strings.Contains(w2.Body.String(), `"state":"completed"`) {
		t.Errorf("Status should report completion: %s", w2.Body.String())
	}

	// The run record lands shortly after the state flips to completed.
	var record *store.RunRecord
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var err error
		record, err = s.resultStore.LoadRecord(job.ID)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if record == nil {
		t.Fatal("Run record was never persisted")
	}
	if record.Generations != 10 {
		t.Errorf("Expected 10 generations, got %d", record.Generations)
	}
}
