package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/shared"
	tu "github.com/viralclips/clipctl/internal/testing"
)

func intPtr(n int) *int { return &n }

func validRequest() models.ClipRequest {
	return models.ClipRequest{
		URL:      "https://youtube.com/watch?v=abc",
		Duration: 30,
		NumClips: 1,
	}
}

func TestValidateClipRequest(t *testing.T) {
	t.Run("accepts a well-formed request", func(t *testing.T) {
		if err := ValidateClipRequest(validRequest()); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("accepts youtu.be short links", func(t *testing.T) {
		req := validRequest()
		req.URL = "https://youtu.be/abc"
		if err := ValidateClipRequest(req); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		req := validRequest()
		req.URL = "  "
		if err := ValidateClipRequest(req); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rejects non-youtube URL", func(t *testing.T) {
		req := validRequest()
		req.URL = "https://vimeo.com/123"
		if err := ValidateClipRequest(req); !errors.Is(err, shared.ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("rejects duration outside bounds", func(t *testing.T) {
		for _, duration := range []int{MinDuration - 1, MaxDuration + 1, 0} {
			req := validRequest()
			req.Duration = duration
			if err := ValidateClipRequest(req); !errors.Is(err, shared.ErrOutOfRange) {
				t.Errorf("duration %d: expected ErrOutOfRange, got %v", duration, err)
			}
		}
	})

	t.Run("rejects clip count outside bounds", func(t *testing.T) {
		for _, clips := range []int{0, MaxClips + 1} {
			req := validRequest()
			req.NumClips = clips
			if err := ValidateClipRequest(req); !errors.Is(err, shared.ErrOutOfRange) {
				t.Errorf("clips %d: expected ErrOutOfRange, got %v", clips, err)
			}
		}
	})

	t.Run("rejects end time not after start time", func(t *testing.T) {
		req := validRequest()
		req.StartTime = intPtr(60)
		req.EndTime = intPtr(60)
		if err := ValidateClipRequest(req); !errors.Is(err, shared.ErrOutOfRange) {
			t.Errorf("expected ErrOutOfRange, got %v", err)
		}
	})

	t.Run("manual boundaries are optional", func(t *testing.T) {
		req := validRequest()
		req.StartTime = intPtr(10)
		if err := ValidateClipRequest(req); err != nil {
			t.Errorf("expected start-only request accepted, got %v", err)
		}
	})
}

func TestClipService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewClipService("", "", "", nil)

			if svc.baseURL != defaultClipBaseURL {
				t.Errorf("expected default base URL, got %s", svc.baseURL)
			}
			if svc.clipPath != "/clips" {
				t.Errorf("expected default clip path, got %s", svc.clipPath)
			}
			if svc.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient")
			}
		})

		t.Run("normalizes slashes", func(t *testing.T) {
			svc := NewClipService("http://example.com/", "clips/", "", nil)

			if svc.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", svc.baseURL)
			}
			if svc.clipPath != "/clips" {
				t.Errorf("expected normalized clip path, got %s", svc.clipPath)
			}
		})
	})

	t.Run("CreateJob", func(t *testing.T) {
		t.Run("posts the request with session header", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/api/generate_clip" {
					t.Errorf("expected /api/generate_clip, got %s", r.URL.Path)
				}
				if r.Header.Get("X-Session-ID") != "sess-1" {
					t.Errorf("expected session header, got %q", r.Header.Get("X-Session-ID"))
				}

				var req models.ClipRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if req.URL != "https://youtube.com/watch?v=abc" {
					t.Errorf("unexpected request URL %s", req.URL)
				}

				json.NewEncoder(w).Encode(models.JobStarted{JobID: "job-1", Status: models.StatusQueued, IsAnonymous: true})
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "sess-1", nil)
			started, err := svc.CreateJob(context.Background(), validRequest())

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if started.JobID != "job-1" {
				t.Errorf("expected job-1, got %s", started.JobID)
			}
			if !started.IsAnonymous {
				t.Error("expected anonymous flag preserved")
			}
		})

		t.Run("invalid request never reaches the server", func(t *testing.T) {
			called := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			req := validRequest()
			req.Duration = 1000
			if _, err := svc.CreateJob(context.Background(), req); !errors.Is(err, shared.ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
			if called {
				t.Error("validation failure must not issue a request")
			}
		})
	})

	t.Run("JobStatus", func(t *testing.T) {
		t.Run("decodes job state", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/job_status/job-1" {
					t.Errorf("expected job path, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(models.Job{
					JobID: "job-1", Status: models.StatusProcessing, Progress: 42, Message: "Analyzing",
				})
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			job, err := svc.JobStatus(context.Background(), "job-1")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if job.Progress != 42 || job.Status != models.StatusProcessing {
				t.Errorf("unexpected job state %+v", job)
			}
		})

		t.Run("unknown job maps to ErrJobNotFound", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "Job not found"})
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			_, err := svc.JobStatus(context.Background(), "missing")

			if !errors.Is(err, shared.ErrJobNotFound) {
				t.Errorf("expected ErrJobNotFound, got %v", err)
			}
			if !strings.Contains(err.Error(), "Job not found") {
				t.Errorf("expected server text surfaced verbatim, got %v", err)
			}
		})

		t.Run("forbidden maps to ErrUnauthorized", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": "Not your job"})
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			_, err := svc.JobStatus(context.Background(), "job-1")

			if !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})

		t.Run("other failures map to ErrServerReported", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			_, err := svc.JobStatus(context.Background(), "job-1")

			if !errors.Is(err, shared.ErrServerReported) {
				t.Errorf("expected ErrServerReported, got %v", err)
			}
		})
	})

	t.Run("AvailableClips", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/available_clips" {
				t.Errorf("expected /api/available_clips, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string][]string{"clips": {"a.mp4", "b.mp4"}})
		}))
		defer server.Close()

		svc := NewClipService(server.URL, "", "", nil)
		clips, err := svc.AvailableClips(context.Background())

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(clips) != 2 || clips[0] != "a.mp4" {
			t.Errorf("unexpected clips %v", clips)
		}
	})

	t.Run("RecentActivity", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"recent_clips": []models.RecentClip{{JobID: "job-1", OriginalTitle: "Title", Duration: 30}},
			})
		}))
		defer server.Close()

		svc := NewClipService(server.URL, "", "", nil)
		recent, err := svc.RecentActivity(context.Background())

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(recent) != 1 || recent[0].JobID != "job-1" {
			t.Errorf("unexpected activity %v", recent)
		}
	})

	t.Run("UpdateCaptions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/update_captions" {
				t.Errorf("expected /api/update_captions, got %s", r.URL.Path)
			}

			var update models.CaptionUpdate
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if update.JobID != "job-1" {
				t.Errorf("expected job id in payload, got %s", update.JobID)
			}
			if update.SpeakerColors["1"] == "" {
				t.Error("expected speaker colors keyed by number string")
			}

			json.NewEncoder(w).Encode(models.UpdateStarted{Status: "regenerating", RegenerationJobID: "regen-1"})
		}))
		defer server.Close()

		svc := NewClipService(server.URL, "", "", nil)
		started, err := svc.UpdateCaptions(context.Background(), models.CaptionUpdate{
			JobID:         "job-1",
			SpeakerColors: map[string]string{"1": "#FF4500", "2": "#00BFFF", "3": "#00FF88"},
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if started.RegenerationJobID != "regen-1" {
			t.Errorf("expected regeneration id, got %s", started.RegenerationJobID)
		}
	})

	t.Run("ClipURL", func(t *testing.T) {
		svc := NewClipService("http://example.com", "/clips", "", nil)

		cases := []struct {
			name string
			want string
		}{
			{"clip.mp4", "http://example.com/clips/clip.mp4"},
			{"/srv/media/clip.mp4", "http://example.com/clips/clip.mp4"},
			{`C:\media\clip.mp4`, "http://example.com/clips/clip.mp4"},
			{"clip.mp4?v=123", "http://example.com/clips/clip.mp4?v=123"},
		}

		for _, tc := range cases {
			if got := svc.ClipURL(tc.name); got != tc.want {
				t.Errorf("ClipURL(%q) = %s, want %s", tc.name, got, tc.want)
			}
		}
	})

	t.Run("ProbeClip", func(t *testing.T) {
		t.Run("2xx counts as loaded", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("expected HEAD, got %s", r.Method)
				}
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			if err := svc.ProbeClip(context.Background(), server.URL+"/clips/a.mp4"); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("non-2xx maps to ErrMediaUnavailable", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			svc := NewClipService(server.URL, "", "", nil)
			err := svc.ProbeClip(context.Background(), server.URL+"/clips/missing.mp4")

			if !errors.Is(err, shared.ErrMediaUnavailable) {
				t.Errorf("expected ErrMediaUnavailable, got %v", err)
			}
		})

		t.Run("transport failure maps to ErrMediaUnavailable", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			svc := NewClipService("http://example.com", "", "", client)

			err := svc.ProbeClip(context.Background(), "http://example.com/clips/a.mp4")
			if !errors.Is(err, shared.ErrMediaUnavailable) {
				t.Errorf("expected ErrMediaUnavailable, got %v", err)
			}
		})
	})

	t.Run("transport failure maps to ErrAPIRequest", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		svc := NewClipService("http://example.com", "", "", client)

		_, err := svc.JobStatus(context.Background(), "job-1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
