package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aircheck/internal/config"
	"aircheck/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "run started",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunStarted(context.Background(), 4)
			},
			expectTitle:   "Aircheck - Run Started",
			expectMessage: "Checking the schedule against 4 sections",
			expectTags:    "aircheck,run,started",
		},
		{
			name: "broadcast archived",
			notify: func(svc notifications.Service) error {
				return svc.NotifyBroadcastArchived(context.Background(), "Journale", "Morgenjournal")
			},
			expectTitle:   "Aircheck - Broadcast Archived",
			expectMessage: "📻 Archived for Journale: Morgenjournal",
			expectTags:    "aircheck,broadcast,archived",
		},
		{
			name: "run completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunCompleted(context.Background(), 7, 0, 90*time.Second)
			},
			expectTitle:   "Aircheck - Run Complete",
			expectMessage: "Run complete: 7 broadcasts archived in 1m30s",
			expectTags:    "aircheck,run,completed",
		},
		{
			name: "run completed with failures",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunCompleted(context.Background(), 5, 2, 45*time.Second)
			},
			expectTitle:   "Aircheck - Run Complete (with errors)",
			expectMessage: "Run complete: 5 archived, 2 failed in 45s",
			expectTags:    "aircheck,run,completed",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("stream not available"), "download")
			},
			expectTitle:    "Aircheck - Error",
			expectMessage:  "❌ Error with download: stream not available",
			expectTags:     "aircheck,error,alert",
			expectPriority: "high",
		},
		{
			name: "test notification",
			notify: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "Aircheck - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "aircheck,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.NotifyRunStarted(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
