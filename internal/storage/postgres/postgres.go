package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rahulpandeyofficial/media-service/internal/config"
	"github.com/rahulpandeyofficial/media-service/internal/types"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	pg := &Postgres{Db: db}
	err = pg.CreateTables()
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS videos (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		public_id VARCHAR(255) NOT NULL,
		original_size VARCHAR(64) NOT NULL,
		compressed_size VARCHAR(64) NOT NULL,
		duration DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := p.Db.Exec(query); err != nil {
		return err
	}

	return nil
}

// CreateVideo inserts one metadata record on a dedicated connection. The
// connection is acquired per call and released on every exit path; the insert
// is not transactional with the preceding upload, so a failure here leaves
// the hosted object in place.
func (p *Postgres) CreateVideo(ctx context.Context, video types.Video) (types.Video, error) {
	conn, err := p.Db.Conn(ctx)
	if err != nil {
		return types.Video{}, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	var id int
	var createdAt time.Time
	query := `
	INSERT INTO videos (title, description, public_id, original_size, compressed_size, duration)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at
	`

	err = conn.QueryRowContext(ctx, query,
		video.Title, video.Description, video.PublicID,
		video.OriginalSize, video.CompressedSize, video.Duration,
	).Scan(&id, &createdAt)
	if err != nil {
		return types.Video{}, err
	}

	video.ID = fmt.Sprintf("%d", id)
	video.CreatedAt = createdAt.Format(time.RFC3339)

	return video, nil
}

func (p *Postgres) ListVideos(ctx context.Context) ([]types.Video, error) {
	query := `
	SELECT id, title, description, public_id, original_size, compressed_size, duration, created_at
	FROM videos
	ORDER BY created_at DESC
	`

	rows, err := p.Db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []types.Video
	for rows.Next() {
		var video types.Video
		var id int
		var createdAt time.Time

		err := rows.Scan(&id, &video.Title, &video.Description, &video.PublicID,
			&video.OriginalSize, &video.CompressedSize, &video.Duration, &createdAt)
		if err != nil {
			return nil, err
		}

		video.ID = fmt.Sprintf("%d", id)
		video.CreatedAt = createdAt.Format(time.RFC3339)
		videos = append(videos, video)
	}

	return videos, rows.Err()
}
