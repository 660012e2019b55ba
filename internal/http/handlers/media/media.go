package media

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rahulpandeyofficial/media-service/internal/config"
	"github.com/rahulpandeyofficial/media-service/internal/http/middleware"
	"github.com/rahulpandeyofficial/media-service/internal/services/cloudinary"
	"github.com/rahulpandeyofficial/media-service/internal/storage"
	"github.com/rahulpandeyofficial/media-service/internal/types"
	"github.com/rahulpandeyofficial/media-service/internal/utils/response"
)

// Uploader submits a buffered file to the media-hosting service.
type Uploader interface {
	Upload(ctx context.Context, data []byte, params cloudinary.UploadParams) (*cloudinary.UploadResult, error)
}

const (
	// Uploaded files are buffered fully in memory before the upload call;
	// this only bounds how much of the multipart body stays off disk while
	// parsing.
	maxMultipartMemory = 32 << 20

	uploadFolder = "saas-video"

	// Delivery transformation for video: automatic quality, mp4 container.
	videoTransformation = "q_auto,f_mp4"
)

// fieldLabel maps a form struct field to the name used in validation
// failure messages.
func fieldLabel(field string) string {
	if field == "OriginalSize" {
		return "Original size"
	}
	return field
}

// UploadImage handles image uploads
// @Summary Upload an image
// @Description Upload an image file to the media host and return its public ID
// @Tags media
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} map[string]string "Upload successful"
// @Failure 400 {object} response.Error "Missing file"
// @Failure 401 {object} response.Error "Unauthorized"
// @Failure 500 {object} response.Error "Upload failed"
// @Security BearerAuth
// @Router /upload/image [post]
func UploadImage(uploader Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract user ID from context
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		uploadRef := uuid.New().String()

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			slog.Error("Failed to parse upload form",
				slog.String("upload_ref", uploadRef), slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload image failed")
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "File not found")
			return
		}
		defer file.Close()

		// Buffer the whole payload before the upload call
		buffer, err := io.ReadAll(file)
		if err != nil {
			slog.Error("Failed to buffer upload",
				slog.String("upload_ref", uploadRef), slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload image failed")
			return
		}

		result, err := uploader.Upload(r.Context(), buffer, cloudinary.UploadParams{
			ResourceType: "image",
			Folder:       uploadFolder,
		})
		if err != nil {
			slog.Error("Upload image failed",
				slog.String("upload_ref", uploadRef), slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload image failed")
			return
		}

		slog.Info("Image uploaded",
			slog.String("user_id", userID), slog.String("public_id", result.PublicID))

		response.WriteJSON(w, http.StatusOK, map[string]string{"public_id": result.PublicID})
	}
}

// UploadVideo handles video uploads
// @Summary Upload a video
// @Description Upload a video file to the media host and persist its metadata
// @Tags media
// @Accept mpfd
// @Produce json
// @Param file formData file true "Video file"
// @Param title formData string true "Video title"
// @Param description formData string true "Video description"
// @Param originalSize formData string true "Original file size in bytes"
// @Success 200 {object} map[string]types.Video "Upload successful"
// @Failure 400 {object} response.Error "Missing file or field"
// @Failure 401 {object} response.Error "Unauthorized"
// @Failure 500 {object} response.Error "Missing credentials or upload failed"
// @Security BearerAuth
// @Router /upload/video [post]
func UploadVideo(uploader Uploader, store storage.Storage, creds config.Cloudinary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract user ID from context
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// Credential pre-flight runs before the body is read at all.
		if creds.Missing() {
			response.WriteError(w, http.StatusInternalServerError, "Cloudinary credentials not found")
			return
		}

		uploadRef := uuid.New().String()

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			slog.Error("Failed to parse upload form",
				slog.String("upload_ref", uploadRef), slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload video failed")
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "No file found")
			return
		}
		defer file.Close()

		form := types.VideoUploadForm{
			Title:        r.FormValue("title"),
			Description:  r.FormValue("description"),
			OriginalSize: r.FormValue("originalSize"),
		}

		// Validate request; the first missing field wins
		validate := validator.New()
		if err := validate.Struct(form); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
				response.WriteError(w, http.StatusBadRequest, fieldLabel(ve[0].Field())+" is required")
				return
			}
			response.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		// Buffer the whole payload before the upload call
		buffer, err := io.ReadAll(file)
		if err != nil {
			slog.Error("Failed to buffer upload",
				slog.String("upload_ref", uploadRef), slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload video failed")
			return
		}

		result, err := uploader.Upload(r.Context(), buffer, cloudinary.UploadParams{
			ResourceType:   "video",
			Folder:         uploadFolder,
			Transformation: videoTransformation,
		})
		if err != nil {
			slog.Error("Upload video failed",
				slog.String("upload_ref", uploadRef), slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload video failed")
			return
		}

		video, err := store.CreateVideo(r.Context(), types.Video{
			Title:          form.Title,
			Description:    form.Description,
			OriginalSize:   form.OriginalSize,
			PublicID:       result.PublicID,
			CompressedSize: strconv.FormatInt(result.Bytes, 10),
			Duration:       result.Duration,
		})
		if err != nil {
			// The hosted object is not deleted here; the failure message
			// matches the upload one on purpose.
			slog.Error("Failed to persist video metadata",
				slog.String("upload_ref", uploadRef),
				slog.String("public_id", result.PublicID),
				slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Upload video failed")
			return
		}

		slog.Info("Video uploaded",
			slog.String("user_id", userID),
			slog.String("video_id", video.ID),
			slog.String("public_id", video.PublicID))

		response.WriteJSON(w, http.StatusOK, map[string]types.Video{"video": video})
	}
}

// ListVideos handles the video listing endpoint
// @Summary List uploaded videos
// @Description List persisted video records, newest first
// @Tags media
// @Produce json
// @Success 200 {object} map[string][]types.Video "Videos fetched successfully"
// @Failure 401 {object} response.Error "Unauthorized"
// @Failure 500 {object} response.Error "Internal server error"
// @Security BearerAuth
// @Router /videos [get]
func ListVideos(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract user ID from context
		_, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		videos, err := store.ListVideos(r.Context())
		if err != nil {
			slog.Error("Failed to fetch videos", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, "Failed to fetch videos")
			return
		}
		if videos == nil {
			videos = []types.Video{}
		}

		response.WriteJSON(w, http.StatusOK, map[string][]types.Video{"videos": videos})
	}
}
