package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rahulpandeyofficial/media-service/internal/config"
)

const DefaultBaseURL = "https://api.cloudinary.com"

// Service is a client for the Cloudinary upload API. The hosted object's
// lifecycle (encoding, storage, delivery) belongs to Cloudinary; this client
// only submits files and decodes the resulting descriptor.
type Service struct {
	creds      config.Cloudinary
	httpClient *http.Client

	// BaseURL points at the Cloudinary API host. Overridable in tests.
	BaseURL string
}

// UploadParams describes one upload operation.
type UploadParams struct {
	// ResourceType is "image" or "video".
	ResourceType string
	Folder       string
	// Transformation is a delivery transformation directive applied by
	// Cloudinary, e.g. "q_auto,f_mp4". Empty means none.
	Transformation string
}

// UploadResult is the descriptor Cloudinary returns for a stored object.
// Duration is only reported for video and decodes to 0 when absent.
type UploadResult struct {
	PublicID     string  `json:"public_id"`
	Bytes        int64   `json:"bytes"`
	Duration     float64 `json:"duration"`
	Format       string  `json:"format"`
	ResourceType string  `json:"resource_type"`
	SecureURL    string  `json:"secure_url"`
	CreatedAt    string  `json:"created_at"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewService creates a new Cloudinary client
func NewService(creds config.Cloudinary) *Service {
	return &Service{
		creds: creds,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		BaseURL: DefaultBaseURL,
	}
}

// Upload submits the buffered file to Cloudinary and returns its descriptor.
// One attempt, no retry; the caller decides how to surface a failure.
func (s *Service) Upload(ctx context.Context, data []byte, params UploadParams) (*UploadResult, error) {
	if params.ResourceType == "" {
		return nil, fmt.Errorf("resource type is required")
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	// Everything except file, api_key and resource_type is part of the
	// signed parameter set.
	signed := map[string]string{
		"timestamp": timestamp,
	}
	if params.Folder != "" {
		signed["folder"] = params.Folder
	}
	if params.Transformation != "" {
		signed["transformation"] = params.Transformation
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range signed {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing form field: %w", err)
		}
	}
	if err := writer.WriteField("api_key", s.creds.APIKey); err != nil {
		return nil, fmt.Errorf("writing form field: %w", err)
	}
	if err := writer.WriteField("signature", SignParams(signed, s.creds.APISecret)); err != nil {
		return nil, fmt.Errorf("writing form field: %w", err)
	}

	part, err := writer.CreateFormFile("file", "file")
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing form writer: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/%s/upload", s.BaseURL, s.creds.CloudName, params.ResourceType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary upload failed: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("cloudinary upload failed with status %d", resp.StatusCode)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.PublicID == "" {
		return nil, fmt.Errorf("cloudinary response has no public_id")
	}

	return &result, nil
}

// SignParams computes the Cloudinary request signature: the signed parameters
// sorted by name, joined as key=value with '&', with the API secret appended,
// hashed with SHA-1 and hex encoded.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}
