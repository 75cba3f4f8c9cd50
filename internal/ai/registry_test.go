// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// mockProvider is a test double implementing the Provider interface.
type mockProvider struct {
	name     string
	response string
	err      error

	mu        sync.Mutex
	callCount int
	last      Request
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.last = req
	return m.response, m.err
}

func TestRegistryComplete(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hello from mock"}
		reg := &Registry{providers: map[string]Provider{"test": mock}, active: "test"}

		got, err := reg.Complete(context.Background(), Request{System: "system", User: "user", JSON: true})
		if err != nil {
			t.Fatalf("Complete: unexpected error: %v", err)
		}
		if got != "Hello from mock" {
			t.Errorf("result: got %q", got)
		}
		if mock.callCount != 1 || mock.last.System != "system" || !mock.last.JSON {
			t.Errorf("provider not called as expected: %+v", mock.last)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		want := errors.New("rate limited")
		reg := &Registry{providers: map[string]Provider{"x": &mockProvider{name: "x", err: want}}, active: "x"}

		if _, err := reg.Complete(context.Background(), Request{}); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("no active provider", func(t *testing.T) {
		reg := &Registry{providers: map[string]Provider{}, active: "openai"}
		if _, err := reg.Complete(context.Background(), Request{}); err == nil {
			t.Error("expected error when active provider is missing")
		}
	})
}

func TestRegistrySetActive(t *testing.T) {
	reg := &Registry{
		providers: map[string]Provider{
			"a": &mockProvider{name: "a", response: "from a"},
			"b": &mockProvider{name: "b", response: "from b"},
		},
		active: "a",
	}

	if err := reg.SetActive("b"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if reg.ActiveName() != "b" {
		t.Errorf("ActiveName: got %q", reg.ActiveName())
	}
	got, _ := reg.Complete(context.Background(), Request{})
	if got != "from b" {
		t.Errorf("Complete after switch: got %q", got)
	}

	if err := reg.SetActive("missing"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if reg.ActiveName() != "b" {
		t.Error("failed SetActive must not change the active provider")
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry("claude", map[string]ProviderConfig{
		"openai":  {APIKey: "sk"},
		"claude":  {APIKey: "ant"},
		"gemini":  {APIKey: ""},
		"unknown": {APIKey: "x"},
	})

	avail := reg.Available()
	if len(avail) != 2 || avail[0] != "claude" || avail[1] != "openai" {
		t.Errorf("Available: got %v, want [claude openai]", avail)
	}
	if !reg.HasProvider("openai") || reg.HasProvider("gemini") || reg.HasProvider("unknown") {
		t.Error("HasProvider mismatch")
	}
	if _, ok := reg.moderator.(*openAIModerator); !ok {
		t.Errorf("expected openai moderator, got %T", reg.moderator)
	}

	both := NewRegistry("openai", map[string]ProviderConfig{"openai": {APIKey: "a"}, "mistral": {APIKey: "b"}})
	if _, ok := both.moderator.(*fallbackModerator); !ok {
		t.Errorf("expected fallback moderator, got %T", both.moderator)
	}

	none := NewRegistry("claude", map[string]ProviderConfig{"claude": {APIKey: "a"}})
	res, err := none.CheckPrompt(context.Background(), "anything")
	if err != nil || !res.Safe {
		t.Errorf("without moderator every prompt passes: res=%+v err=%v", res, err)
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry("custom", nil)
	reg.Register("custom", &mockProvider{name: "custom", response: "ok"})

	got, err := reg.Complete(context.Background(), Request{})
	if err != nil || got != "ok" {
		t.Errorf("Complete: got %q, %v", got, err)
	}
}

func TestRegistryConcurrency(t *testing.T) {
	reg := &Registry{
		providers: map[string]Provider{
			"a": &mockProvider{name: "a", response: "from a"},
			"b": &mockProvider{name: "b", response: "from b"},
		},
		active: "a",
	}

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			name := "a"
			if i%2 == 0 {
				name = "b"
			}
			reg.SetActive(name)
		}(i)
		go func() {
			defer wg.Done()
			got, err := reg.Complete(context.Background(), Request{})
			if err != nil || (got != "from a" && got != "from b") {
				t.Errorf("unexpected result %q, %v", got, err)
			}
		}()
	}
	wg.Wait()
}

func TestOpenAIModerator(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSafe bool
		wantCats []string
	}{
		{"not flagged", `{"results":[{"flagged":false,"categories":{"hate":false}}]}`, true, nil},
		{"flagged", `{"results":[{"flagged":true,"categories":{"hate/threatening":true,"self_harm":true,"sexual":false}}]}`, false, []string{"hate (threatening)", "self harm"}},
		{"no results", `{"results":[]}`, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, []byte(tt.body))
			defer srv.Close()

			res, err := newOpenAIModerator("k", srv.URL).CheckSafety(context.Background(), "topic")
			if err != nil {
				t.Fatalf("CheckSafety: %v", err)
			}
			if res.Safe != tt.wantSafe {
				t.Errorf("Safe: got %v, want %v", res.Safe, tt.wantSafe)
			}
			if len(res.Categories) != len(tt.wantCats) {
				t.Fatalf("Categories: got %v, want %v", res.Categories, tt.wantCats)
			}
			for i := range tt.wantCats {
				if res.Categories[i] != tt.wantCats[i] {
					t.Errorf("Categories[%d]: got %q, want %q", i, res.Categories[i], tt.wantCats[i])
				}
			}
		})
	}
}

func TestFallbackModerator(t *testing.T) {
	denied := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":"no access"}`))
	defer denied.Close()
	mistral := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/moderations" {
			t.Errorf("mistral path: got %q", r.URL.Path)
		}
		w.Write([]byte(`{"results":[{"categories":{"violence":true}}]}`))
	}))
	defer mistral.Close()

	f := &fallbackModerator{moderators: []Moderator{
		newOpenAIModerator("k", denied.URL),
		newMistralModerator("k", mistral.URL),
	}}
	res, err := f.CheckSafety(context.Background(), "x")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe || len(res.Categories) != 1 || res.Categories[0] != "violence" {
		t.Errorf("unexpected result %+v", res)
	}

	// Non-auth errors are returned without trying the next moderator.
	broken := newTestServer(t, http.StatusInternalServerError, []byte(`boom`))
	defer broken.Close()
	f = &fallbackModerator{moderators: []Moderator{
		newOpenAIModerator("k", broken.URL),
		newMistralModerator("k", mistral.URL),
	}}
	if _, err := f.CheckSafety(context.Background(), "x"); err == nil {
		t.Error("expected server error to be returned")
	}
}
