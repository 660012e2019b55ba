package types

// Video is a persisted video metadata record. It is created once after a
// successful upload and never mutated afterwards.
type Video struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	PublicID       string  `json:"public_id"`
	OriginalSize   string  `json:"original_size"`
	CompressedSize string  `json:"compressed_size"`
	Duration       float64 `json:"duration"`
	CreatedAt      string  `json:"created_at"`
}

// VideoUploadForm carries the text fields of the video upload request.
// Field order matters: validation fails fast on the first empty field,
// in the order declared here.
type VideoUploadForm struct {
	Title        string `validate:"required"`
	Description  string `validate:"required"`
	OriginalSize string `validate:"required"`
}
