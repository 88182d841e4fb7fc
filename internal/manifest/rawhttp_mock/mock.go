package rawhttp_mock

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
)

var pathPattern = regexp.MustCompile(`^/([^/]+)/(.+)$`)

// Server provides a mock raw content endpoint for testing.
type Server struct {
	server *httptest.Server

	mu       sync.Mutex
	files    map[string]string // key = revision|path
	requests int
	status   int
}

// NewServer creates and starts a new mock raw content server.
func NewServer() *Server {
	s := &Server{
		files: make(map[string]string),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests++

		if s.status != 0 {
			http.Error(w, http.StatusText(s.status), s.status)
			return
		}

		// Paths look like /{revision}/{path}
		matches := pathPattern.FindStringSubmatch(r.URL.Path)
		if matches == nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		content, ok := s.files[matches[1]+"|"+matches[2]]
		if !ok {
			http.Error(w, "404: Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(content))
	})

	s.server = httptest.NewServer(handler)
	return s
}

// URL returns the URL of the mock server.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts down the mock server.
func (s *Server) Close() {
	s.server.Close()
}

// SetFile serves content for path at revision.
func (s *Server) SetFile(revision, path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[revision+"|"+path] = content
}

// FailWith makes every request answer with status. Zero restores normal
// behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
