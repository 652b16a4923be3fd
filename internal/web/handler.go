// Package web serves the upload form: images and a mapping file go in, a
// zip of renamed copies comes out.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/BartekS5/twinren/internal/archive"
	"github.com/BartekS5/twinren/internal/mapping"
	"github.com/BartekS5/twinren/internal/rename"
	"github.com/BartekS5/twinren/pkg/logger"
)

//go:embed static/index.html static/example_mapping.csv
var static embed.FS

const (
	ArchiveName   = "renamed_images.zip"
	maxFormMemory = 32 << 20
)

// Handler owns the HTTP endpoints. Every upload is processed in its own
// temporary directory, so concurrent requests share only the archive Store.
type Handler struct {
	Store    archive.Store
	Exts     []string
	MaxBytes int64
	Log      *logger.Logger
	// TempDir is the parent of per-request work directories; empty means
	// os.TempDir.
	TempDir string
}

type uploadStats struct {
	Processed     int `json:"processed"`
	Skipped       int `json:"skipped"`
	Errors        int `json:"errors"`
	TotalUploaded int `json:"total_uploaded"`
}

type uploadResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Stats       uploadStats `json:"stats"`
	Pairs       int         `json:"pairs"`
	DownloadURL string      `json:"download_url"`
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /upload", h.upload)
	mux.HandleFunc("GET /download/{id}", h.download)
	mux.HandleFunc("GET /download-example-csv", h.exampleCSV)
	mux.HandleFunc("GET /health", h.health)
	return mux
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page not available")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "twinren upload server is running",
	})
}

func (h *Handler) exampleCSV(w http.ResponseWriter, r *http.Request) {
	data, err := static.ReadFile("static/example_mapping.csv")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "example not available")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="example_mapping.csv"`)
	_, _ = w.Write(data)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		if r.ContentLength > h.MaxBytes {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.MaxBytes))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.Log.Errorf("Invalid upload form: %v", err)
		writeError(w, http.StatusBadRequest, "invalid upload form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	mappingFiles := r.MultipartForm.File["mapping_file"]
	images := r.MultipartForm.File["images"]
	if len(mappingFiles) == 0 || len(images) == 0 {
		h.Log.Errorf("Upload is missing files")
		writeError(w, http.StatusBadRequest, "missing files: a mapping file and images are required")
		return
	}
	mappingName := safeName(mappingFiles[0].Filename)
	if mappingName == "" {
		writeError(w, http.StatusBadRequest, "no mapping file selected")
		return
	}
	h.Log.Infof("Mapping file received: %s", mappingName)
	h.Log.Infof("Images received: %d", len(images))

	work, err := os.MkdirTemp(h.TempDir, "twinren-*")
	if err != nil {
		h.Log.Errorf("Cannot create work directory: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer os.RemoveAll(work)

	inputDir := filepath.Join(work, "input")
	outputDir := filepath.Join(work, "output")
	mappingDir := filepath.Join(work, "mapping")
	for _, dir := range []string{inputDir, mappingDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			h.Log.Errorf("Cannot create %s: %v", dir, err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	mappingPath := filepath.Join(mappingDir, mappingName)
	if err := saveUpload(mappingFiles[0], mappingPath); err != nil {
		h.Log.Errorf("Cannot save mapping file: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot save mapping file")
		return
	}

	saved := 0
	for _, fh := range images {
		name := safeName(fh.Filename)
		if name == "" {
			continue
		}
		if err := saveUpload(fh, filepath.Join(inputDir, name)); err != nil {
			h.Log.Errorf("Cannot save image %s: %v", name, err)
			continue
		}
		saved++
	}
	h.Log.Infof("Images saved: %d", saved)
	if saved == 0 {
		writeError(w, http.StatusBadRequest, "no valid image uploaded")
		return
	}

	m, report, err := mapping.BuildFromFile(mappingPath, h.Log)
	if err != nil {
		h.Log.Errorf("Mapping file error: %v", err)
		writeError(w, http.StatusBadRequest, "mapping file error: "+err.Error())
		return
	}

	res, err := rename.NewEngine(h.Log).Process(m, inputDir, outputDir, h.Exts, false)
	if err != nil {
		h.Log.Errorf("Processing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "processing failed: "+err.Error())
		return
	}
	h.Log.Infof("Processing completed: %d processed, %d skipped, %d errors", res.Processed, res.Skipped, res.Errors)

	data, _, err := archive.ZipDirBytes(outputDir)
	if err != nil {
		h.Log.Errorf("Cannot build archive: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot build archive")
		return
	}
	id := uuid.NewString()
	if err := h.Store.Put(r.Context(), id, data); err != nil {
		h.Log.Errorf("Cannot store archive %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "cannot store archive")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		Message: "Processing completed successfully",
		Stats: uploadStats{
			Processed:     res.Processed,
			Skipped:       res.Skipped,
			Errors:        res.Errors,
			TotalUploaded: saved,
		},
		Pairs:       report.Accepted,
		DownloadURL: "/download/" + id,
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "download not found")
		return
	}

	url, err := h.Store.GetURL(r.Context(), id, ArchiveName)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "download not found")
		return
	}
	if err == nil && url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "download not found")
		return
	}
	if err != nil {
		h.Log.Errorf("Cannot load archive %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "cannot load archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ArchiveName))
	_, _ = w.Write(data)
}

// safeName keeps only the last path element of a client supplied name.
func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
