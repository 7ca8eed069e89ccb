package oulia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_GuestFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/conversations/prop-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["guestName"] != "Marie" {
			t.Errorf("guestName = %q", body["guestName"])
		}
		if _, ok := body["language"]; ok {
			t.Error("empty language should be omitted")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"conversation":{"id":"conv-1","propertyId":"prop-1","guestName":"Marie","language":"fr"}}`))
	})
	mux.HandleFunc("/api/chat/conversations/conv-1/messages", func(w http.ResponseWriter, r *http.Request) {
		var in MessageInput
		json.NewDecoder(r.Body).Decode(&in)
		w.Write([]byte(`{"userMessage":{"id":"m1","role":"user","content":"` + in.Content + `"},` +
			`"assistantMessage":{"id":"m2","role":"assistant","content":"1234"}}`))
	})
	mux.HandleFunc("/api/chat/conversations/conv-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"conversationId":"conv-1","messages":[{"id":"m1"},{"id":"m2"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	conv, err := c.StartConversation(ctx, "prop-1", "Marie", "")
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != "conv-1" || conv.Language != "fr" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}

	turn, err := c.SendMessage(ctx, conv.ID, MessageInput{Content: "wifi?"})
	if err != nil {
		t.Fatal(err)
	}
	if turn.UserMessage.Content != "wifi?" || turn.AssistantMessage.Content != "1234" {
		t.Fatalf("unexpected turn: %+v", turn)
	}

	msgs, err := c.History(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(msgs))
	}
}

func TestClient_APIErrorCarriesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"Désolé","code":"UPSTREAM_GENERATION_FAILED","fallback":"Désolé"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SendMessage(context.Background(), "conv-1", MessageInput{Content: "hi"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Code != "UPSTREAM_GENERATION_FAILED" || apiErr.Fallback != "Désolé" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Translate(context.Background(), "hello", "fr")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad gateway" {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_TokenHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"issue":{"id":"i1","category":"other"}}`))
	}))
	defer srv.Close()

	issue, err := NewClient(srv.URL, WithToken("tok")).ReportIssue(context.Background(), "p1", IssueInput{Description: "leak"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bearer tok" || issue.ID != "i1" {
		t.Errorf("auth = %q, issue = %+v", got, issue)
	}
}
