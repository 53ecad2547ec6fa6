package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/outline"
	"github.com/dgallion1/coursedoc/internal/parser"
)

// treeFilename routes raw editor trees to the JSON importer.
const treeFilename = "tree.json"

// upload is a document received from a client.
type upload struct {
	filename string
	data     []byte
	meta     course.Meta
}

// courseRequest is the JSON form of /api/course: an editor tree and its
// course metadata.
type courseRequest struct {
	Tree json.RawMessage `json:"tree"`
	Meta course.Meta     `json:"meta"`
}

func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

// readUpload reads the multipart "file" field and the optional "meta" JSON
// field. It writes the error response itself and returns false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}

	meta, err := parseMeta(r.FormValue("meta"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	return upload{filename: filename, data: data, meta: meta}, true
}

// readJSONBody reads a JSON request body within the upload limit.
func (s *Server) readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return data, true
}

func parseMeta(raw string) (course.Meta, error) {
	var meta course.Meta
	if strings.TrimSpace(raw) == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return meta, fmt.Errorf("invalid meta: %w", err)
	}
	return meta, nil
}

// handleOutline returns the numbered outline of an uploaded file or of a
// raw editor tree posted as JSON.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	var up upload
	if isJSON(r) {
		data, ok := s.readJSONBody(w, r)
		if !ok {
			return
		}
		up = upload{filename: treeFilename, data: data}
	} else {
		var ok bool
		if up, ok = s.readUpload(w, r); !ok {
			return
		}
	}

	res, items, err := s.orchestrator.Worker().Outline(up.filename, up.data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if items == nil {
		items = []*outline.Item{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title": res.Title,
		"items": items,
	})
}

// handleCourse returns the course document built from an upload or from a
// {"tree", "meta"} JSON body.
func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	var up upload
	if isJSON(r) {
		data, ok := s.readJSONBody(w, r)
		if !ok {
			return
		}
		var req courseRequest
		if err := json.Unmarshal(data, &req); err != nil {
			jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
		up = upload{filename: treeFilename, data: req.Tree, meta: req.Meta}
	} else {
		var ok bool
		if up, ok = s.readUpload(w, r); !ok {
			return
		}
	}

	doc, _, err := s.orchestrator.Worker().Course(up.filename, up.data, up.meta)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
