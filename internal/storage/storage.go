package storage

import (
	"context"

	"github.com/rahulpandeyofficial/media-service/internal/types"
)

type Storage interface {
	CreateVideo(ctx context.Context, video types.Video) (types.Video, error)
	ListVideos(ctx context.Context) ([]types.Video, error)
}
