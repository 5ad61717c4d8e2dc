// Package server is the navigation shell: it serves the About page and one
// composer page per content type, plus a JSON API over the same sessions.
package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkedin_post_automation/compose"
	"linkedin_post_automation/form"
)

const sessionCookie = "composer_session"

// Options tune request handling.
type Options struct {
	// Timeout bounds each action against the remote services.
	Timeout time.Duration
	// MaxUploadBytes caps a request body carrying media.
	MaxUploadBytes int64
}

type Server struct {
	deps      compose.Deps
	opts      Options
	store     *sessionStore
	templates map[string]*template.Template
	logger    *zap.Logger
}

// sessionStore keeps one workspace per browser or API session. Sessions live
// in memory only.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*compose.Workspace
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*compose.Workspace)}
}

func (s *sessionStore) set(id string, ws *compose.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = ws
}

func (s *sessionStore) get(id string) (*compose.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sessions[id]
	return ws, ok
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func New(deps compose.Deps, opts Options) (*Server, error) {
	if deps.Generation == nil || deps.Media == nil || deps.Publisher == nil {
		return nil, errors.New("generation, media and publisher services are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
		deps.Logger = logger
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 100 << 20
	}
	tmpls, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		deps:      deps,
		opts:      opts,
		store:     newStore(),
		templates: tmpls,
		logger:    logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleAbout)
	mux.HandleFunc("GET /{type}", s.handlePage)
	mux.HandleFunc("POST /{type}", s.handlePageAction)

	mux.HandleFunc("POST /api/sessions", s.handleSessionCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.handleSessionGet))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleSessionDelete)
	mux.HandleFunc("POST /api/sessions/{id}/fields/{type}", s.withSession(s.handleFields))
	mux.HandleFunc("POST /api/sessions/{id}/generate/{type}", s.withSession(s.handleGenerate))
	mux.HandleFunc("POST /api/sessions/{id}/images", s.withSession(s.handleImagesSelect))
	mux.HandleFunc("POST /api/sessions/{id}/images/upload", s.withSession(s.handleImagesUpload))
	mux.HandleFunc("POST /api/sessions/{id}/video", s.withSession(s.handleVideoSelect))
	mux.HandleFunc("POST /api/sessions/{id}/video/upload", s.withSession(s.handleVideoUpload))
	mux.HandleFunc("POST /api/sessions/{id}/preview", s.withSession(s.handlePreview))
	mux.HandleFunc("POST /api/sessions/{id}/submit/{type}", s.withSession(s.handleSubmit))
	mux.HandleFunc("GET /api/link-preview", s.handleLinkPreview)

	return logMiddleware(s.logger, mux)
}

func (s *Server) newWorkspace() (string, *compose.Workspace, error) {
	ws, err := compose.NewWorkspace(s.deps)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	s.store.set(id, ws)
	return id, ws, nil
}

// browserSession returns the workspace bound to the session cookie, starting
// a new one when the cookie is missing or stale.
func (s *Server) browserSession(w http.ResponseWriter, r *http.Request) (*compose.Workspace, error) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if ws, ok := s.store.get(c.Value); ok {
			return ws, nil
		}
	}
	id, ws, err := s.newWorkspace()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ws, nil
}

// resetBrowserSession drops the cookie's workspace and starts a fresh one.
func (s *Server) resetBrowserSession(w http.ResponseWriter, r *http.Request) (*compose.Workspace, error) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.store.delete(c.Value)
	}
	r.Header.Del("Cookie")
	return s.browserSession(w, r)
}

func (s *Server) actionContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.opts.Timeout)
}

func pathType(r *http.Request) (form.ContentType, bool) {
	ct, err := form.ParseContentType(r.PathValue("type"))
	return ct, err == nil
}

// parseUpload parses a multipart or urlencoded body within the upload cap.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}
