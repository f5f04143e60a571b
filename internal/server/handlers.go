package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/shaderdoc/pkg/buildinfo"
	"github.com/matzehuels/shaderdoc/pkg/document"
	"github.com/matzehuels/shaderdoc/pkg/errors"
	libio "github.com/matzehuels/shaderdoc/pkg/io"
	"github.com/matzehuels/shaderdoc/pkg/pipeline"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// Content types of the responses.
const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeJSON = "application/json"
	contentTypeSVG  = "image/svg+xml"
	contentTypeDOT  = "text/vnd.graphviz; charset=utf-8"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type materialResponse struct {
	Name     string `json:"name"`
	UseNodes bool   `json:"use_nodes"`
	Nodes    int    `json:"nodes"`
	Links    int    `json:"links"`
	Root     string `json:"root,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	lib, err := s.readLibrary(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Buffered so a failure can still change the status code.
	var lines document.Lines
	res, err := s.runner.Document(r.Context(), lib, opts, &lines)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeText)
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	w.Header().Set("X-Report-Lines", strconv.Itoa(res.Stats.Lines))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(lines.String()))
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	lib, err := s.readLibrary(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = r.URL.Query().Get("format")

	res, err := s.runner.Graph(r.Context(), lib, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ct := contentTypeSVG
	if res.Format == pipeline.FormatDOT {
		ct = contentTypeDOT
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	lib, err := s.readLibrary(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sums := pipeline.Summarize(lib)
	out := make([]materialResponse, len(sums))
	for i, m := range sums {
		out[i] = materialResponse{Name: m.Name, UseNodes: m.UseNodes, Nodes: m.Nodes, Links: m.Links, Root: m.Root}
		if m.Err != nil {
			out[i].Error = string(errors.GetCode(m.Err))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// readLibrary decodes the request body in the format named by its
// Content-Type. A missing Content-Type means JSON.
func (s *Server) readLibrary(w http.ResponseWriter, r *http.Request) (*shader.Library, error) {
	format, err := bodyFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()
	return libio.ReadLibrary(body, format)
}

func bodyFormat(contentType string) (libio.Format, error) {
	if contentType == "" {
		return libio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed Content-Type")
	}
	switch mt {
	case "application/json":
		return libio.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return libio.FormatYAML, nil
	case "application/toml":
		return libio.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported library content type %q (use JSON, YAML or TOML)", mt)
}

func requestOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Material: q.Get("material")}
	for name, dst := range map[string]*bool{
		"refresh":  &opts.Refresh,
		"detailed": &opts.Detailed,
		"expand":   &opts.ExpandGroups,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		*dst = b
	}
	return opts, nil
}

// StatusFor maps an error to the HTTP status reported for it.
func StatusFor(err error) int {
	if tooLarge := new(http.MaxBytesError); stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeMaterialNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMaterialHasNoNodeGraph, errors.ErrCodeNoOutputNode:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	if errors.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
