// Package http provides the hosting web chat UI.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obrienkev/clara-go/internal/domain/entities"
	"github.com/obrienkev/clara-go/internal/domain/ports"
	"github.com/obrienkev/clara-go/internal/domain/usecases"
)

const sessionCookie = "clara_session"

// AuditReader exposes recent audit records for the review panel.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]entities.AuditRecord, error)
}

// Server is the HTTP server for the Clara chat demo.
// Conversations are session-scoped: one per browser session, keyed by a
// UUID cookie, created lazily and reclaimed when the process exits.
type Server struct {
	newConversation func() *usecases.Conversation
	auditReader     AuditReader
	logger          *zap.Logger
	addr            string

	mu       sync.Mutex
	sessions map[string]*usecases.Conversation
}

// NewServer creates a new chat UI server. auditReader may be nil when the
// SQLite audit store is disabled.
func NewServer(newConversation func() *usecases.Conversation, auditReader AuditReader, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		newConversation: newConversation,
		auditReader:     auditReader,
		logger:          logger,
		addr:            addr,
		sessions:        make(map[string]*usecases.Conversation),
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/chat/stream", s.handleChatStream)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/reasoning", s.handleReasoning)
	mux.HandleFunc("/api/audit/recent", s.handleAuditRecent)
	mux.HandleFunc("/api/health", s.handleHealth)

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.loggingMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // Longer for streaming
	}

	s.logger.Info("clara chat UI starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	return server.ListenAndServe()
}

// conversation returns the session's conversation, creating both the session
// cookie and the conversation on first contact.
func (s *Server) conversation(w http.ResponseWriter, r *http.Request) *usecases.Conversation {
	var id string
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		id = cookie.Value
	} else {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[id]
	if !ok {
		conv = s.newConversation()
		s.sessions[id] = conv
		s.logger.Info("session started", zap.String("session", id))
	}
	return conv
}

// handleChatStream processes one user turn and streams the reply as SSE.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Query required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	conv := s.conversation(w, r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	renderer := &sseRenderer{w: w, flusher: flusher}
	reply := conv.ProcessUserInput(r.Context(), query, renderer)

	// The post-filter may have rewritten the streamed text; the final event
	// carries the cleaned reply the client should settle on.
	sendSSE(w, flusher, map[string]any{"final": reply})
	sendSSE(w, flusher, map[string]any{"done": true})
}

// handleHistory returns the session transcript for re-rendering on reload.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)

	type turn struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	history := conv.History()
	turns := make([]turn, len(history))
	for i, m := range history {
		turns[i] = turn{Role: m.Role, Content: m.Content}
	}

	writeJSON(w, turns)
}

// handleReasoning exposes the last turn's explainability trace.
func (s *Server) handleReasoning(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)

	trace := conv.LastTrace()
	if trace == nil {
		writeJSON(w, map[string]string{"status": "no reasoning yet"})
		return
	}
	writeJSON(w, trace)
}

// handleAuditRecent returns the latest flattened audit records.
func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if s.auditReader == nil {
		http.Error(w, "Audit store disabled", http.StatusNotFound)
		return
	}

	records, err := s.auditReader.Recent(r.Context(), 20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, data map[string]any) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}

// sseRenderer implements ports.ChatRenderer over a server-sent event stream.
type sseRenderer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (r *sseRenderer) RenderMessage(role, text string) {
	sendSSE(r.w, r.flusher, map[string]any{"role": role, "message": text})
}

func (r *sseRenderer) RenderStream(tokens <-chan ports.StreamToken) string {
	var full string
	for token := range tokens {
		full += token.Content
		sendSSE(r.w, r.flusher, map[string]any{"content": token.Content})
	}
	return full
}

func (r *sseRenderer) RenderReflection(text string) {
	sendSSE(r.w, r.flusher, map[string]any{"reflection": text})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

// handleIndex renders the chat UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	// Ensure the session (and greeting) exists before the page loads history.
	s.conversation(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Clara</title>
    <style>
      body { font-family: sans-serif; background: #f7f9fc; margin: 0; }
      .container { max-width: 760px; margin: 0 auto; padding: 1rem; }
      h1 { color: #0b3d91; }
      #messages { min-height: 300px; }
      .message { padding: 0.8rem 1rem; border-radius: 1rem; margin: 0.7rem 0;
                 box-shadow: 0 1px 4px rgba(0,0,0,0.08); }
      .message.user { background: #eef4ff; text-align: right; }
      .message.assistant { background: #ffffff; white-space: pre-wrap; }
      .message.reflection { background: #fffbe6; border-left: 4px solid #bfa15a;
                            font-style: italic; color: #444; }
      form { display: flex; gap: 0.5rem; margin-top: 1rem; }
      input { flex: 1; padding: 0.6rem; border-radius: 0.5rem; border: 1px solid #ccd; }
      button { padding: 0.6rem 1.2rem; border-radius: 0.5rem; border: 0;
               background: #0b3d91; color: #fff; cursor: pointer; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Clara</h1>
        <p>An ethical guide for Ireland's public health services — a teaching demo.</p>
        <div id="messages"></div>
        <form id="chat-form" onsubmit="sendMessage(event)">
            <input type="text" id="chat-input" placeholder="Write to Clara..." autocomplete="off" required>
            <button type="submit">Send</button>
        </form>
    </div>
    <script>
        const messages = document.getElementById('messages');

        function addMessage(cls, text) {
            const div = document.createElement('div');
            div.className = 'message ' + cls;
            div.textContent = text;
            messages.appendChild(div);
            return div;
        }

        fetch('/api/history').then(r => r.json()).then(turns => {
            for (const t of turns) addMessage(t.role, t.content);
        });

        function sendMessage(e) {
            e.preventDefault();
            const input = document.getElementById('chat-input');
            const query = input.value.trim();
            if (!query) return;
            input.value = '';

            addMessage('user', query);
            const replyEl = addMessage('assistant', '');
            let full = '';

            const source = new EventSource('/api/chat/stream?q=' + encodeURIComponent(query));
            source.onmessage = function(event) {
                const data = JSON.parse(event.data);
                if (data.done) {
                    source.close();
                } else if (data.final) {
                    full = data.final;
                    replyEl.textContent = full;
                } else if (data.reflection) {
                    const el = addMessage('reflection', '🪞 ' + data.reflection);
                    messages.insertBefore(el, replyEl);
                } else if (data.content) {
                    full += data.content;
                    replyEl.textContent = full;
                }
                window.scrollTo(0, document.body.scrollHeight);
            };
            source.onerror = function() { source.close(); };
        }
    </script>
</body>
</html>`
