// Package viewer serves run-record artifacts over HTTP for inspection. It is
// strictly read-only: it enumerates and renders YAML records from a single
// directory and never mutates them.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/koushik24k/AgentFlow/artifact"
	"github.com/koushik24k/AgentFlow/types"
)

type Config struct {
	Addr      string
	Directory string
	Logger    *slog.Logger
}

type Server struct {
	cfg    Config
	logger *slog.Logger
	mux    *http.ServeMux
	http   *http.Server
}

// RecordSummary is one row of the listing endpoint.
type RecordSummary struct {
	File      string    `json:"file"`
	PlanID    string    `json:"plan_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	NodeCount int       `json:"node_count"`
}

func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Directory) == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:8780"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/runs", s.handleListRuns)
	s.mux.HandleFunc("/api/runs/", s.handleGetRun)
	s.http = &http.Server{Addr: cfg.Addr, Handler: s.mux}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.mux
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server is nil")
	}
	errCh := make(chan error, 1)
	go func() {
		err := s.http.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	s.logger.Info("viewer listening", "addr", s.cfg.Addr, "directory", s.cfg.Directory)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("viewer shutdown error", "error", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	summaries, err := s.listRecords()
	if err != nil {
		s.logger.Error("listing run records", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	file := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	path, err := s.resolveRecordPath(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var record types.RunRecord
	if err := artifact.ReadYAML(path, &record); err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("run record %s not found", file))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	summaries, err := s.listRecords()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, map[string]any{
		"Directory": s.cfg.Directory,
		"Runs":      summaries,
	})
}

func (s *Server) listRecords() ([]RecordSummary, error) {
	entries, err := os.ReadDir(s.cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact directory: %w", err)
	}
	summaries := make([]RecordSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isRecordFile(entry.Name()) {
			continue
		}
		var record types.RunRecord
		path := filepath.Join(s.cfg.Directory, entry.Name())
		if err := artifact.ReadYAML(path, &record); err != nil {
			s.logger.Warn("skipping unreadable record", "file", entry.Name(), "error", err)
			continue
		}
		summaries = append(summaries, RecordSummary{
			File:      entry.Name(),
			PlanID:    record.PlanID,
			Name:      record.Name,
			Status:    string(record.Status),
			CreatedAt: record.CreatedAt,
			NodeCount: len(record.Nodes),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// resolveRecordPath confines lookups to the configured directory. Only bare
// YAML file names are accepted; anything that escapes the directory after
// cleaning is rejected.
func (s *Server) resolveRecordPath(file string) (string, error) {
	if file == "" {
		return "", fmt.Errorf("run record file name is required")
	}
	cleaned := filepath.Clean(file)
	if cleaned != filepath.Base(cleaned) || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("invalid run record name %q", file)
	}
	if !isRecordFile(cleaned) {
		return "", fmt.Errorf("run record name must end in .yaml")
	}
	return filepath.Join(s.cfg.Directory, cleaned), nil
}

func isRecordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, map[string]any{"error": msg})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>AgentFlow Runs</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
.failed { color: #b00020; }
.completed { color: #1b5e20; }
</style>
</head>
<body>
<h1>AgentFlow Runs</h1>
<p>Artifact directory: <code>{{.Directory}}</code></p>
<table>
<tr><th>Plan</th><th>Name</th><th>Status</th><th>Created</th><th>Nodes</th></tr>
{{range .Runs}}
<tr>
<td><a href="/api/runs/{{.File}}">{{.PlanID}}</a></td>
<td>{{.Name}}</td>
<td class="{{.Status}}">{{.Status}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
<td>{{.NodeCount}}</td>
</tr>
{{else}}
<tr><td colspan="5">No run records yet.</td></tr>
{{end}}
</table>
</body>
</html>
`))
