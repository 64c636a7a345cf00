package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/storage"
)

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{
		Timeout:     2 * time.Second,
		MaxRetries:  2,
		RetryDelays: []time.Duration{0, 10 * time.Millisecond, 10 * time.Millisecond},
	}
}

func testNotification() *model.Notification {
	return model.NewNotification("achievement", "Week of Calm", "You practiced 7 days in a row.")
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &SlackFormatter{}, GetFormatter(model.ServiceSlack))
	assert.IsType(t, &DiscordFormatter{}, GetFormatter(model.ServiceDiscord))
	assert.IsType(t, &GenericFormatter{}, GetFormatter(model.ServiceGeneric))
	assert.IsType(t, &GenericFormatter{}, GetFormatter(model.WebhookService("unknown")))
}

func TestGenericFormatter(t *testing.T) {
	f := &GenericFormatter{}
	payload, err := f.Format(testNotification())
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	var got map[string]string
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "breathe", got["source"])
	assert.Equal(t, "achievement", got["kind"])
	assert.Equal(t, "Week of Calm", got["title"])
	assert.NotEmpty(t, got["timestamp"])
}

func TestSlackFormatter(t *testing.T) {
	f := &SlackFormatter{}
	payload, err := f.Format(testNotification())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Contains(t, got["text"], "Week of Calm")

	blocks, ok := got["blocks"].([]any)
	require.True(t, ok)
	assert.Len(t, blocks, 3) // header, section, context
}

func TestDiscordFormatter(t *testing.T) {
	f := &DiscordFormatter{}
	payload, err := f.Format(testNotification())
	require.NoError(t, err)

	var got struct {
		Embeds []struct {
			Title string `json:"title"`
			Color int    `json:"color"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "Week of Calm", got.Embeds[0].Title)
	assert.Equal(t, 0xF59E0B, got.Embeds[0].Color)
}

// =============================================================================
// HTTPClient Tests
// =============================================================================

func TestHTTPClientSend(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig())
		result := c.Send(context.Background(), srv.URL, "application/json", []byte(`{}`))
		require.NoError(t, result.Error)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, 1, result.Attempts)
	})

	t.Run("retries_server_error", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig())
		result := c.Send(context.Background(), srv.URL, "application/json", []byte(`{}`))
		require.NoError(t, result.Error)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("client_error_not_retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig())
		result := c.Send(context.Background(), srv.URL, "application/json", []byte(`{}`))
		require.Error(t, result.Error)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("exhausted_retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig())
		result := c.Send(context.Background(), srv.URL, "application/json", []byte(`{}`))
		require.Error(t, result.Error)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("context_cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewHTTPClient(testHTTPConfig())
		result := c.Send(ctx, srv.URL, "application/json", []byte(`{}`))
		assert.Error(t, result.Error)
	})
}

// =============================================================================
// Dispatcher Tests
// =============================================================================

func setupDispatcher(t *testing.T) (*Dispatcher, *storage.WebhookRepo) {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := storage.NewWebhookRepo(db)
	return NewDispatcher(repo, testHTTPConfig()), repo
}

func TestDispatcherSendNotification(t *testing.T) {
	d, repo := setupDispatcher(t)

	var received int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&received, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, repo.Create(model.NewWebhook("a", srv.URL, model.ServiceGeneric)))
	require.NoError(t, repo.Create(model.NewWebhook("b", srv.URL, model.ServiceSlack)))

	disabled := model.NewWebhook("c", srv.URL, model.ServiceGeneric)
	disabled.Enabled = false
	require.NoError(t, repo.Create(disabled))

	results := d.SendNotification(context.Background(), testNotification())
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Success, "webhook %s failed: %v", r.WebhookName, r.Error)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&received))
}

func TestDispatcherNoWebhooks(t *testing.T) {
	d, _ := setupDispatcher(t)
	results := d.SendNotification(context.Background(), testNotification())
	assert.Nil(t, results)
	assert.False(t, d.HasEnabledWebhooks())
}

func TestDispatcherSendToSingle(t *testing.T) {
	d, repo := setupDispatcher(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, repo.Create(model.NewWebhook("only", srv.URL, model.ServiceDiscord)))

	result := d.SendToSingle(context.Background(), testNotification(), "only")
	assert.True(t, result.Success)

	missing := d.SendToSingle(context.Background(), testNotification(), "nope")
	assert.False(t, missing.Success)
	assert.Error(t, missing.Error)
}

func TestDispatcherTestWebhook(t *testing.T) {
	d, repo := setupDispatcher(t)

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		body = buf
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, repo.Create(model.NewWebhook("hook", srv.URL, model.ServiceGeneric)))

	result := d.TestWebhook(context.Background(), "hook")
	assert.True(t, result.Success)
	assert.Contains(t, string(body), "test notification")
}
