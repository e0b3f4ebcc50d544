package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obrienkev/clara-go/internal/domain/entities"
	"github.com/obrienkev/clara-go/internal/domain/ports"
	"github.com/obrienkev/clara-go/internal/domain/usecases"
)

type stubLLM struct {
	fragments []string
}

func (s *stubLLM) GenerateStream(ctx context.Context, prompt string) <-chan ports.StreamToken {
	ch := make(chan ports.StreamToken, len(s.fragments))
	for i, f := range s.fragments {
		ch <- ports.StreamToken{Content: f, Done: i == len(s.fragments)-1}
	}
	close(ch)
	return ch
}

type stubAuditReader struct {
	records []entities.AuditRecord
	err     error
}

func (s *stubAuditReader) Recent(ctx context.Context, limit int) ([]entities.AuditRecord, error) {
	return s.records, s.err
}

func newTestServer(llm ports.CompletionService, reader AuditReader) *Server {
	factory := func() *usecases.Conversation {
		return usecases.NewConversation(llm, nil, nil, usecases.Config{ShowReflection: true})
	}
	return NewServer(factory, reader, nil, ":0")
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&stubLLM{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHandleChatStream_RequiresQuery(t *testing.T) {
	server := newTestServer(&stubLLM{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/stream", nil)
	w := httptest.NewRecorder()
	server.handleChatStream(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatStream_StreamsContentThenFinalThenDone(t *testing.T) {
	server := newTestServer(&stubLLM{fragments: []string{"Hello", " there."}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/stream?q=hi", nil)
	w := httptest.NewRecorder()
	server.handleChatStream(w, req)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var events []map[string]any
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}
	require.NotEmpty(t, events)

	// Last two events settle the turn: the cleaned final reply, then done.
	last := events[len(events)-1]
	assert.Equal(t, true, last["done"])
	final := events[len(events)-2]
	assert.Contains(t, final["final"], "Hello there.")

	var sawContent bool
	for _, e := range events {
		if _, ok := e["content"]; ok {
			sawContent = true
		}
	}
	assert.True(t, sawContent, "expected streamed content fragments before the final event")
}

func TestHandleChatStream_SetsSessionCookie(t *testing.T) {
	server := newTestServer(&stubLLM{fragments: []string{"hi"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/stream?q=hello", nil)
	w := httptest.NewRecorder()
	server.handleChatStream(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestSessionsAreIsolated(t *testing.T) {
	server := newTestServer(&stubLLM{fragments: []string{"ok"}}, nil)

	// First session chats once.
	req := httptest.NewRequest(http.MethodGet, "/api/chat/stream?q=hello", nil)
	w := httptest.NewRecorder()
	server.handleChatStream(w, req)
	cookie := w.Result().Cookies()[0]

	// Same cookie sees its transcript; a new visitor sees only the greeting.
	histReq := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	histReq.AddCookie(cookie)
	histW := httptest.NewRecorder()
	server.handleHistory(histW, histReq)

	var turns []map[string]string
	require.NoError(t, json.Unmarshal(histW.Body.Bytes(), &turns))
	assert.Len(t, turns, 3, "greeting + user + assistant")

	freshW := httptest.NewRecorder()
	server.handleHistory(freshW, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	var freshTurns []map[string]string
	require.NoError(t, json.Unmarshal(freshW.Body.Bytes(), &freshTurns))
	assert.Len(t, freshTurns, 1, "fresh session starts with the greeting only")
}

func TestHandleReasoning_BeforeAndAfterFirstTurn(t *testing.T) {
	server := newTestServer(&stubLLM{fragments: []string{"ok"}}, nil)

	w := httptest.NewRecorder()
	server.handleReasoning(w, httptest.NewRequest(http.MethodGet, "/api/reasoning", nil))
	assert.Contains(t, w.Body.String(), "no reasoning yet")
	cookie := w.Result().Cookies()[0]

	chatReq := httptest.NewRequest(http.MethodGet, "/api/chat/stream?q=what+is+a+HSE+referral%3F", nil)
	chatReq.AddCookie(cookie)
	server.handleChatStream(httptest.NewRecorder(), chatReq)

	req := httptest.NewRequest(http.MethodGet, "/api/reasoning", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	server.handleReasoning(w, req)

	var trace entities.ReasoningTrace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trace))
	assert.Equal(t, "informational", trace.Intent)
	assert.Equal(t, entities.ModeEducation, trace.Mode)
}

func TestHandleAuditRecent(t *testing.T) {
	reader := &stubAuditReader{records: []entities.AuditRecord{
		{Mode: entities.ModeSupport, Version: entities.AuditSchemaVersion},
	}}
	server := newTestServer(&stubLLM{}, reader)

	w := httptest.NewRecorder()
	server.handleAuditRecent(w, httptest.NewRequest(http.MethodGet, "/api/audit/recent", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var records []entities.AuditRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, entities.ModeSupport, records[0].Mode)
}

func TestHandleAuditRecent_DisabledStore(t *testing.T) {
	server := newTestServer(&stubLLM{}, nil)

	w := httptest.NewRecorder()
	server.handleAuditRecent(w, httptest.NewRequest(http.MethodGet, "/api/audit/recent", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAuditRecent_ReaderError(t *testing.T) {
	server := newTestServer(&stubLLM{}, &stubAuditReader{err: errors.New("store offline")})

	w := httptest.NewRecorder()
	server.handleAuditRecent(w, httptest.NewRequest(http.MethodGet, "/api/audit/recent", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleIndex(t *testing.T) {
	server := newTestServer(&stubLLM{}, nil)

	w := httptest.NewRecorder()
	server.handleIndex(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Clara")
}

func TestHandleIndex_NotFoundForOtherPaths(t *testing.T) {
	server := newTestServer(&stubLLM{}, nil)

	w := httptest.NewRecorder()
	server.handleIndex(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
