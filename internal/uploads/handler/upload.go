package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"eventy/pkg/config"
	httputil "eventy/pkg/http"
	"eventy/pkg/logger"
)

// allowedImageTypes maps accepted upload content types to the stored
// file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores event images on local disk and serves them back
// under /uploads. Filenames are random so uploads never collide or leak
// the original name.
type UploadHandler struct {
	cfg *config.Config
	log *logger.Logger
}

func NewUploadHandler(cfg *config.Config, log *logger.Logger) *UploadHandler {
	return &UploadHandler{
		cfg: cfg,
		log: log,
	}
}

func (h *UploadHandler) RegisterRoutes(router *httprouter.Router, adminOnly func(httprouter.Handle) httprouter.Handle) {
	router.POST("/api/uploads", adminOnly(h.Upload))
	router.ServeFiles("/uploads/*filepath", http.Dir(h.cfg.UploadDir))
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.cfg.MaxUploadSize))

	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadSize)); err != nil {
		h.writeError(w, http.StatusBadRequest, "File exceeds the maximum upload size or the form is malformed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Missing 'image' file field")
		return
	}
	defer file.Close()

	ext, err := h.imageExtension(file, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are accepted")
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		h.log.Error("failed to create upload directory", "dir", h.cfg.UploadDir, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	filename := uuid.NewString() + ext
	path := filepath.Join(h.cfg.UploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		h.log.Error("failed to create upload file", "path", path, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.log.Error("failed to write upload file", "path", path, "error", err)
		// Leave no partial file behind.
		_ = os.Remove(path)
		h.writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	h.log.Info("Image uploaded", "filename", filename, "size", header.Size)

	if err := httputil.WriteCreated(w, map[string]string{
		"url": "/uploads/" + filename,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Upload", "error", err)
	}
}

// imageExtension validates the upload by sniffing the file content; the
// declared Content-Type is only a fallback for formats sniffing cannot
// distinguish.
func (h *UploadHandler) imageExtension(file io.ReadSeeker, declared string) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	contentType := http.DetectContentType(buf[:n])
	if ext, ok := allowedImageTypes[contentType]; ok {
		return ext, nil
	}

	declared, _, _ = strings.Cut(declared, ";")
	if ext, ok := allowedImageTypes[strings.TrimSpace(declared)]; ok {
		return ext, nil
	}

	return "", fmt.Errorf("unsupported content type: %s", contentType)
}

func (h *UploadHandler) writeError(w http.ResponseWriter, status int, message string) {
	if err := httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: message}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Upload", "error", err)
	}
}
