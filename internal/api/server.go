package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Roelanb/studyplan/internal/options"
	"github.com/Roelanb/studyplan/internal/submission"
)

const maxFormBytes = 1 << 20

type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type Control interface {
	// Reload re-reads the configuration file.
	Reload(ctx context.Context) error
	// GetConfig returns the current config model as JSON-able structure.
	GetConfig() any
	// ApplyConfig replaces the current config with the provided JSON bytes.
	ApplyConfig(ctx context.Context, raw []byte) error
	// NewSubmitter builds the submission controller for a freshly mounted view.
	NewSubmitter(view submission.View, viewID string) *submission.Controller
	// Presentation is how failures are shown: "inline" or "alert".
	Presentation() string
	// ViewTTL is how long an idle view is kept.
	ViewTTL() time.Duration
	Version() string
}

type Server struct {
	log   Logger
	ctrl  Control
	views *viewRegistry
	mux   *http.ServeMux
	srv   *http.Server
	addr  string
	ln    net.Listener
	mu    sync.Mutex
	start bool
}

func New(log Logger, ctrl Control, addr string) *Server {
	mux := http.NewServeMux()
	s := &Server{
		log:   log,
		ctrl:  ctrl,
		views: newViewRegistry(),
		mux:   mux,
		addr:  addr,
	}
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/options", s.handleOptions)
	mux.HandleFunc("/reload", s.handleReload)
	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("POST /api/views/{id}/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/views/{id}/dismiss", s.handleDismiss)
	s.mountUI()
	return s
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.log.Infow("api server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("api server error", "error", err)
		}
	}()
	s.start = true
	go s.sweepViews(ctx)
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	s.start = false
	return err
}

func (s *Server) sweepViews(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.views.sweep(s.ctrl.ViewTTL()); n > 0 {
				s.log.Infow("expired idle views", "count", n, "remaining", s.views.len())
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, options.Populate(nil))
}

// submitResponse is the view state sent back to the page after a submission.
type submitResponse struct {
	submission.Snapshot
	Presentation string               `json:"presentation"`
	Kind         submission.ErrorKind `json:"kind,omitempty"`
	PlanID       int64                `json:"planId,omitempty"`
}

const msgViewExpired = "This page has expired, reload it to continue"

// writeViewError answers with a view state that shows msg and leaves the
// trigger usable, for failures that happen before a controller runs.
func (s *Server) writeViewError(w http.ResponseWriter, status int, kind submission.ErrorKind, msg string) {
	writeJSON(w, status, submitResponse{
		Snapshot: submission.Snapshot{
			TriggerEnabled: true,
			ErrorVisible:   true,
			Error:          msg,
		},
		Presentation: s.ctrl.Presentation(),
		Kind:         kind,
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views.get(r.PathValue("id"))
	if !ok {
		s.writeViewError(w, http.StatusNotFound, submission.KindUnknown, msgViewExpired)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.log.Infow("invalid form", "view", v.id, "err", err)
		s.writeViewError(w, http.StatusBadRequest, submission.KindValidation, "Invalid form: "+err.Error())
		return
	}

	res, err := v.ctrl.Submit(r.Context(), submission.FormRequest(r.PostForm))
	out := submitResponse{
		Snapshot:     v.rec.Snapshot(),
		Presentation: v.presentation,
		Kind:         submission.Kind(err),
	}
	if out.Kind != submission.KindNone {
		// The previous plan stays on the page; only a success replaces it.
		out.HTML = ""
	}
	status := http.StatusOK
	switch out.Kind {
	case submission.KindNone:
		out.PlanID = res.PlanID
		s.log.Infow("study plan rendered", "view", v.id, "plan", res.PlanID)
	case submission.KindInFlight:
		status = http.StatusConflict
	case submission.KindValidation:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, out)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views.get(r.PathValue("id"))
	if !ok {
		s.writeViewError(w, http.StatusNotFound, submission.KindUnknown, msgViewExpired)
		return
	}
	v.ctrl.DismissError()
	writeJSON(w, http.StatusOK, v.rec.Snapshot())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ctrl.GetConfig())
	case http.MethodPost:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := s.ctrl.ApplyConfig(ctx, raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := s.ctrl.Reload(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
