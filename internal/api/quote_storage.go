package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"dh2ocol/internal/httpx"
)

// Quotation images live in BunnyCDN storage under the folder the client
// names (today always "cotizaciones"); the returned URLs point at the
// pull zone and go straight into the email body.

func (s *Server) bunnyConfigured() bool {
	return strings.TrimSpace(s.cfg.BunnyStorageKey) != "" &&
		strings.TrimSpace(s.cfg.BunnyStorageZone) != "" &&
		strings.TrimSpace(s.cfg.BunnyPullBaseURL) != ""
}

func (s *Server) bunnyPullURL(objectPath string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.BunnyPullBaseURL), "/")
	return base + "/" + strings.TrimLeft(objectPath, "/")
}

// bunnyObjectPath maps a pull-zone URL back to its storage path, or ""
// when the URL does not belong to our zone.
func (s *Server) bunnyObjectPath(rawURL string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.BunnyPullBaseURL), "/") + "/"
	if !strings.HasPrefix(rawURL, base) {
		return ""
	}
	return strings.TrimPrefix(rawURL, base)
}

func (s *Server) bunnyPut(ctx context.Context, objectPath string, payload []byte, contentType string) error {
	if !s.bunnyConfigured() {
		return errors.New("almacenamiento BunnyCDN no configurado")
	}
	if len(payload) == 0 {
		return errors.New("imagen vacía")
	}
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}

	u := "https://storage.bunnycdn.com/" + url.PathEscape(strings.TrimSpace(s.cfg.BunnyStorageZone)) + "/" + bunnyEscapePath(objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("AccessKey", strings.TrimSpace(s.cfg.BunnyStorageKey))
	req.Header.Set("Content-Type", contentType)

	cli := &http.Client{Timeout: 30 * time.Second}
	res, err := cli.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		msg = res.Status
	}
	return fmt.Errorf("bunny: subida fallida (%d): %s", res.StatusCode, msg)
}

func (s *Server) bunnyDelete(ctx context.Context, objectPath string) error {
	if !s.bunnyConfigured() {
		return errors.New("almacenamiento BunnyCDN no configurado")
	}

	u := "https://storage.bunnycdn.com/" + url.PathEscape(strings.TrimSpace(s.cfg.BunnyStorageZone)) + "/" + bunnyEscapePath(objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("AccessKey", strings.TrimSpace(s.cfg.BunnyStorageKey))

	cli := &http.Client{Timeout: 30 * time.Second}
	res, err := cli.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// A missing object counts as deleted.
	if (res.StatusCode >= 200 && res.StatusCode < 300) || res.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("bunny: borrado fallido (%d)", res.StatusCode)
}

func bunnyEscapePath(p string) string {
	p = strings.TrimLeft(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, url.PathEscape(part))
	}
	return strings.Join(out, "/")
}

func fileExtForContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/png"):
		return ".png"
	case strings.HasPrefix(ct, "image/webp"):
		return ".webp"
	case strings.HasPrefix(ct, "image/gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" || strings.Contains(folder, "..") || strings.Contains(folder, "/") {
		return "cotizaciones"
	}
	return folder
}

func (s *Server) handleQuoteUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.QuoteMaxImageMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*10)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Formulario inválido o demasiado grande")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "No se recibieron imágenes")
		return
	}

	folder := sanitizeFolder(r.FormValue("folder"))

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxBytes {
			httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Cada imagen debe pesar menos de %d MB", s.cfg.QuoteMaxImageMB))
			return
		}

		f, err := fh.Open()
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "No se pudo leer la imagen")
			return
		}
		payload, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		f.Close()
		if err != nil || int64(len(payload)) > maxBytes {
			httpx.WriteError(w, http.StatusBadRequest, "No se pudo leer la imagen")
			return
		}

		contentType := http.DetectContentType(payload)
		if !strings.HasPrefix(contentType, "image/") {
			httpx.WriteError(w, http.StatusBadRequest, "Solo se permiten imágenes")
			return
		}

		objectPath := folder + "/" + uuid.NewString() + fileExtForContentType(contentType)
		if err := s.bunnyPut(r.Context(), objectPath, payload, contentType); err != nil {
			log.Printf("quote: error subiendo imagen: %v", err)
			httpx.WriteError(w, http.StatusInternalServerError, "No se pudieron subir las imágenes")
			return
		}
		urls = append(urls, s.bunnyPullURL(objectPath))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"urls":    urls,
	})
}

type quoteDeleteRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleQuoteDelete(w http.ResponseWriter, r *http.Request) {
	var req quoteDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	objectPath := s.bunnyObjectPath(strings.TrimSpace(req.URL))
	if objectPath == "" {
		httpx.WriteError(w, http.StatusBadRequest, "URL fuera de la zona de imágenes")
		return
	}

	if err := s.bunnyDelete(r.Context(), objectPath); err != nil {
		log.Printf("quote: error eliminando imagen: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "No se pudo eliminar")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
