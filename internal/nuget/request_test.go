package nuget

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestRequestLifecycle(t *testing.T) {
	t.Run("pre-cancelled context never reaches the network", func(t *testing.T) {
		reg := newFakeRegistry(t)
		called := false
		reg.handle("/ping", func(w http.ResponseWriter, r *http.Request) {
			called = true
		})
		c := newTestClient(reg.source("feed"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out map[string]any
		err := c.getJSON(ctx, reg.source("feed"), reg.srv.URL+"/ping", time.Second, nil, &out)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
		if !strings.Contains(err.Error(), "before") {
			t.Errorf("error should say cancellation preceded the request: %v", err)
		}
		if called {
			t.Error("no transport call should have been made")
		}
	})

	t.Run("mid-flight cancellation uses cancellation wording", func(t *testing.T) {
		reg := newFakeRegistry(t)
		release := make(chan struct{})
		reg.handle("/slow", func(w http.ResponseWriter, r *http.Request) {
			<-release
		})
		t.Cleanup(func() { close(release) })
		c := newTestClient(reg.source("feed"))

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		var out map[string]any
		err := c.getJSON(ctx, reg.source("feed"), reg.srv.URL+"/slow", 10*time.Second, nil, &out)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
		if !strings.Contains(err.Error(), "cancelled") {
			t.Errorf("expected cancellation wording, got: %v", err)
		}
		if strings.Contains(err.Error(), "timed out") {
			t.Errorf("cancellation must not be reported as a timeout: %v", err)
		}
	})

	t.Run("timeout uses timeout wording", func(t *testing.T) {
		reg := newFakeRegistry(t)
		release := make(chan struct{})
		reg.handle("/slow", func(w http.ResponseWriter, r *http.Request) {
			<-release
		})
		t.Cleanup(func() { close(release) })
		c := newTestClient(reg.source("feed"))

		var out map[string]any
		err := c.getJSON(context.Background(), reg.source("feed"), reg.srv.URL+"/slow", 50*time.Millisecond, nil, &out)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
		if !strings.Contains(err.Error(), "timed out") {
			t.Errorf("expected timeout wording, got: %v", err)
		}
	})

	t.Run("401 maps to AuthRequired with a configuration hint", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.handle("/secure", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
		src := reg.source("PrivateFeed")
		c := newTestClient(src)

		var out map[string]any
		err := c.getJSON(context.Background(), src, reg.srv.URL+"/secure", time.Second, nil, &out)
		re, ok := AsRegistryError(err)
		if !ok || !errors.Is(err, ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}
		if re.Status != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", re.Status)
		}
		if !strings.Contains(re.Hint, "PrivateFeed") {
			t.Errorf("hint should name the source: %q", re.Hint)
		}
		if !strings.Contains(re.Hint, "credentials") {
			t.Errorf("hint should mention credential configuration: %q", re.Hint)
		}
	})

	t.Run("403 also maps to AuthRequired", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.handle("/secure", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		})
		c := newTestClient(reg.source("feed"))

		var out map[string]any
		err := c.getJSON(context.Background(), reg.source("feed"), reg.srv.URL+"/secure", time.Second, nil, &out)
		if !errors.Is(err, ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("429 carries the retry-after seconds", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.handle("/busy", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
		})
		c := newTestClient(reg.source("feed"))

		var out map[string]any
		err := c.getJSON(context.Background(), reg.source("feed"), reg.srv.URL+"/busy", time.Second, nil, &out)
		re, ok := AsRegistryError(err)
		if !ok || !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
		if re.RetryAfter != 60 {
			t.Errorf("RetryAfter = %d, want 60", re.RetryAfter)
		}
	})

	t.Run("429 with a non-numeric retry-after leaves it unset", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.handle("/busy", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
			w.WriteHeader(http.StatusTooManyRequests)
		})
		c := newTestClient(reg.source("feed"))

		var out map[string]any
		err := c.getJSON(context.Background(), reg.source("feed"), reg.srv.URL+"/busy", time.Second, nil, &out)
		re, _ := AsRegistryError(err)
		if re == nil || re.RetryAfter != 0 {
			t.Errorf("expected RetryAfter 0, got %+v", re)
		}
	})

	t.Run("malformed JSON body is a parse error", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.handle("/bad", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>surprise</html>"))
		})
		c := newTestClient(reg.source("feed"))

		var out map[string]any
		err := c.getJSON(context.Background(), reg.source("feed"), reg.srv.URL+"/bad", time.Second, nil, &out)
		if !errors.Is(err, ErrParse) {
			t.Fatalf("expected ErrParse, got %v", err)
		}
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		src := Source{ID: "gone", Name: "gone", IndexURL: "http://127.0.0.1:1/v3/index.json", Enabled: true}
		c := newTestClient(src)

		var out map[string]any
		err := c.getJSON(context.Background(), src, "http://127.0.0.1:1/v3/index.json", time.Second, nil, &out)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
	})
}
