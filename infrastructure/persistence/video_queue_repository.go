package persistence

import (
	"context"
	"database/sql"

	"channel-studio/domain/model"

	"github.com/lib/pq"
)

type VideoQueueRepository struct{ db *sql.DB }

func NewVideoQueueRepository(db *sql.DB) *VideoQueueRepository {
	return &VideoQueueRepository{db: db}
}

const videoColumns = `id, channel_id, title, description, url, thumbnail, duration, status,
	status_progress, error_message, completed_at, created_at, updated_at`

func (r *VideoQueueRepository) Create(ctx context.Context, video *model.Video) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, `INSERT INTO videos (channel_id, title, description, status)
	VALUES ($1, $2, $3, 'pending')
	RETURNING `+videoColumns, video.ChannelID, video.Title, video.Description)
	return scanVideo(row)
}

func (r *VideoQueueRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VideoQueueRepository) ListForChannel(ctx context.Context, channelID int64) ([]model.Video, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos
	WHERE channel_id = $1 ORDER BY created_at DESC`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// CountInProgress counts videos occupying a generation slot.
func (r *VideoQueueRepository) CountInProgress(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM videos WHERE status = ANY($1)`,
		pq.Array(model.ProcessingStatuses))
	var count int64
	err := row.Scan(&count)
	return count, err
}

// ClaimPending atomically moves a pending video into generating_script.
// Returns nil when the video is not in pending state anymore, so two
// concurrent dispatchers cannot claim the same row.
func (r *VideoQueueRepository) ClaimPending(ctx context.Context, id int64) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE videos SET status='generating_script', updated_at=NOW()
	WHERE id = $1 AND status = 'pending'
	RETURNING `+videoColumns, id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// ClaimOldestPending atomically dequeues the oldest pending video.
func (r *VideoQueueRepository) ClaimOldestPending(ctx context.Context) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE videos SET status='generating_script', updated_at=NOW()
	WHERE id = (
		SELECT id FROM videos WHERE status = 'pending'
		ORDER BY created_at ASC LIMIT 1
		FOR UPDATE SKIP LOCKED
	)
	RETURNING `+videoColumns)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VideoQueueRepository) UpdateStatus(ctx context.Context, id int64, status string, progress *int, errorMessage *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET status=$1, status_progress=$2, error_message=$3, updated_at=NOW()
	WHERE id = $4`, status, progress, errorMessage, id)
	return err
}

func (r *VideoQueueRepository) CompleteVideo(ctx context.Context, id int64, url, thumbnail, duration *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET status='completed', status_progress=100,
	url=$1, thumbnail=$2, duration=$3, completed_at=NOW(), updated_at=NOW()
	WHERE id = $4`, url, thumbnail, duration, id)
	return err
}

func scanVideo(row interface{ Scan(...interface{}) error }) (*model.Video, error) {
	var v model.Video
	var description, url, thumbnail, duration, errorMessage sql.NullString
	var statusProgress sql.NullInt64
	var completedAt sql.NullTime

	err := row.Scan(&v.ID, &v.ChannelID, &v.Title, &description, &url, &thumbnail, &duration, &v.Status,
		&statusProgress, &errorMessage, &completedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}

	v.Description = nullableString(description)
	v.URL = nullableString(url)
	v.Thumbnail = nullableString(thumbnail)
	v.Duration = nullableString(duration)
	v.ErrorMessage = nullableString(errorMessage)
	if statusProgress.Valid {
		p := int(statusProgress.Int64)
		v.StatusProgress = &p
	}
	if completedAt.Valid {
		t := completedAt.Time
		v.CompletedAt = &t
	}
	return &v, nil
}
