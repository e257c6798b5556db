// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/viralclips/clipctl/internal/models"
)

// MockService is a test double for [services.Service] with settable responses.
type MockService struct {
	Started     *models.JobStarted
	Job         *models.Job
	Recent      []models.RecentClip
	Clips       []string
	Update      *models.UpdateStarted
	Refresh     *models.VideoRefresh
	Repair      *models.JobRepair
	Diagnostics *models.JobDiagnostics
	Err         error
	ProbeErr    error

	// Captures the last payload passed to UpdateCaptions.
	LastUpdate *models.CaptionUpdate
}

func (m *MockService) CreateJob(ctx context.Context, req models.ClipRequest) (*models.JobStarted, error) {
	return m.Started, m.Err
}

func (m *MockService) JobStatus(ctx context.Context, jobID string) (*models.Job, error) {
	return m.Job, m.Err
}

func (m *MockService) RecentActivity(ctx context.Context) ([]models.RecentClip, error) {
	return m.Recent, m.Err
}

func (m *MockService) AvailableClips(ctx context.Context) ([]string, error) {
	return m.Clips, m.Err
}

func (m *MockService) UpdateCaptions(ctx context.Context, update models.CaptionUpdate) (*models.UpdateStarted, error) {
	m.LastUpdate = &update
	return m.Update, m.Err
}

func (m *MockService) RefreshVideo(ctx context.Context, jobID string) (*models.VideoRefresh, error) {
	return m.Refresh, m.Err
}

func (m *MockService) FixJob(ctx context.Context, jobID string) (*models.JobRepair, error) {
	return m.Repair, m.Err
}

func (m *MockService) DebugJob(ctx context.Context, jobID string) (*models.JobDiagnostics, error) {
	return m.Diagnostics, m.Err
}

func (m *MockService) ClipURL(filename string) string {
	return "http://localhost:5000/clips/" + filename
}

func (m *MockService) ProbeClip(ctx context.Context, url string) error {
	return m.ProbeErr
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
