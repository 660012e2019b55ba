package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rahulpandeyofficial/media-service/internal/config"
)

var testCreds = config.Cloudinary{
	CloudName: "demo",
	APIKey:    "key123",
	APISecret: "secret456",
}

func TestSignParams(t *testing.T) {
	params := map[string]string{
		"timestamp": "1315060510",
		"folder":    "saas-video",
	}

	// Signed params sorted by name, joined as key=value with '&', secret
	// appended, SHA-1 hex.
	sum := sha1.Sum([]byte("folder=saas-video&timestamp=1315060510" + "abcd"))
	expected := hex.EncodeToString(sum[:])

	if got := SignParams(params, "abcd"); got != expected {
		t.Fatalf("Expected signature %s, got %s", expected, got)
	}
}

func TestUpload_Success(t *testing.T) {
	content := []byte("fake video bytes")

	var gotPath string
	var gotForm map[string]string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("Failed to parse multipart form: %v", err)
		}
		gotForm = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotForm[key] = values[0]
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Failed to read file part: %v", err)
		}
		defer file.Close()
		gotFile, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"saas-video/abc123","bytes":1048576,"duration":12.5,"format":"mp4","resource_type":"video"}`))
	}))
	defer server.Close()

	service := NewService(testCreds)
	service.BaseURL = server.URL

	result, err := service.Upload(context.Background(), content, UploadParams{
		ResourceType:   "video",
		Folder:         "saas-video",
		Transformation: "q_auto,f_mp4",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/v1_1/demo/video/upload" {
		t.Fatalf("Expected path /v1_1/demo/video/upload, got %s", gotPath)
	}
	if !bytes.Equal(gotFile, content) {
		t.Fatal("File part does not match the uploaded buffer")
	}
	if gotForm["api_key"] != "key123" {
		t.Fatalf("Expected api_key key123, got %q", gotForm["api_key"])
	}
	if gotForm["folder"] != "saas-video" {
		t.Fatalf("Expected folder saas-video, got %q", gotForm["folder"])
	}
	if gotForm["transformation"] != "q_auto,f_mp4" {
		t.Fatalf("Expected transformation q_auto,f_mp4, got %q", gotForm["transformation"])
	}
	if gotForm["timestamp"] == "" {
		t.Fatal("Expected a timestamp field")
	}

	expectedSignature := SignParams(map[string]string{
		"timestamp":      gotForm["timestamp"],
		"folder":         "saas-video",
		"transformation": "q_auto,f_mp4",
	}, testCreds.APISecret)
	if gotForm["signature"] != expectedSignature {
		t.Fatalf("Expected signature %s, got %s", expectedSignature, gotForm["signature"])
	}

	if result.PublicID != "saas-video/abc123" {
		t.Fatalf("Expected public_id saas-video/abc123, got %q", result.PublicID)
	}
	if result.Bytes != 1048576 {
		t.Fatalf("Expected bytes 1048576, got %d", result.Bytes)
	}
	if result.Duration != 12.5 {
		t.Fatalf("Expected duration 12.5, got %v", result.Duration)
	}
}

func TestUpload_NoDuration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"saas-video/img1","bytes":2048,"format":"png","resource_type":"image"}`))
	}))
	defer server.Close()

	service := NewService(testCreds)
	service.BaseURL = server.URL

	result, err := service.Upload(context.Background(), []byte("img"), UploadParams{
		ResourceType: "image",
		Folder:       "saas-video",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Duration != 0 {
		t.Fatalf("Expected duration 0 when absent, got %v", result.Duration)
	}
}

func TestUpload_RemoteRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer server.Close()

	service := NewService(testCreds)
	service.BaseURL = server.URL

	_, err := service.Upload(context.Background(), []byte("img"), UploadParams{ResourceType: "image"})
	if err == nil {
		t.Fatal("Expected an error for a rejected upload")
	}
}

func TestUpload_MissingPublicID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	service := NewService(testCreds)
	service.BaseURL = server.URL

	_, err := service.Upload(context.Background(), []byte("img"), UploadParams{ResourceType: "image"})
	if err == nil {
		t.Fatal("Expected an error when the response has no public_id")
	}
}
