// Package api uploads finished session exports to the world archive server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/voxelrealm/simcore/pkg/core"
)

const (
	uploadPath   = "/api/v1/sessions/add"
	maxErrorBody = 512
)

// ErrNoSessionID is returned for exports whose metadata names no session;
// the archive keys every upload by session.
var ErrNoSessionID = errors.New("export metadata has no session id")

// StatusError is a non-2xx answer from the archive server.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Op, e.Code, e.Body)
}

// Client talks to the world archive server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the archive server is reachable.
func (c *Client) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus("healthcheck", resp)
}

// Upload sends one session export with its metadata as a JSON part.
// Plain exports are gzip-compressed on the way, so the archive only ever
// stores .gz files.
func (c *Client) Upload(ctx context.Context, filePath string, meta core.ExportMetadata) error {
	if meta.SessionID == "" {
		return ErrNoSessionID
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := filepath.Base(filePath)
	compress := !strings.HasSuffix(name, ".gz")
	if compress {
		name += ".gz"
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		err := c.writeForm(writer, name, metaJSON, file, compress)
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
		errCh <- err
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, pr)
	if err != nil {
		_ = pr.Close()
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Session-Id", meta.SessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if writeErr := <-errCh; writeErr != nil {
		return writeErr
	}
	return checkStatus("upload", resp)
}

func (c *Client) writeForm(w *multipart.Writer, name string, meta []byte, src io.Reader, compress bool) error {
	if err := w.WriteField("secret", c.apiKey); err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="metadata"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create metadata part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	filePart, err := w.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if !compress {
		if _, err := io.Copy(filePart, src); err != nil {
			return fmt.Errorf("failed to copy file: %w", err)
		}
		return nil
	}
	gz := gzip.NewWriter(filePart)
	if _, err := io.Copy(gz, src); err != nil {
		return fmt.Errorf("failed to compress file: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to compress file: %w", err)
	}
	return nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
