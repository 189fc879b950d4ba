// Package sqlite provides a SQLite-backed implementation of the artifact store port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

// Adapter implements the artifact store port for SQLite
type Adapter struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.ArtifactStore = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if strings.Contains(storagePath, ":memory:") {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db, now: time.Now}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Ping reports whether the database is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// CreateArtifact inserts a new artifact under a generated id. Any ID on the
// argument is ignored.
func (a *Adapter) CreateArtifact(ctx context.Context, art domain.VibeArtifact) (string, error) {
	vibeJSON, err := json.Marshal(art.Vibe)
	if err != nil {
		return "", fmt.Errorf("failed to encode vibe: %w", err)
	}
	trackInfo, err := encodeTrackInfo(art.TrackInfo)
	if err != nil {
		return "", err
	}

	createdAt := art.CreatedAt
	if createdAt.IsZero() {
		createdAt = a.now()
	}

	var creatorUID, creatorName, creatorEmail, creatorPhoto sql.NullString
	if art.Creator != nil {
		creatorUID = nullString(art.Creator.UID)
		creatorName = nullString(art.Creator.DisplayName)
		creatorEmail = nullString(art.Creator.Email)
		creatorPhoto = nullString(art.Creator.PhotoURL)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO artifacts (
			id, vibe_json, journal_title, journal_body, song_query, track_url, title, track_info_json,
			creator_uid, creator_name, creator_email, creator_photo, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		id,
		string(vibeJSON),
		art.Journal.Title,
		art.Journal.Body,
		art.Journal.SongQuery,
		nullString(art.TrackURL),
		nullString(art.Title),
		trackInfo,
		creatorUID,
		creatorName,
		creatorEmail,
		creatorPhoto,
		createdAt.UTC().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}

	return id, nil
}

func (a *Adapter) GetArtifact(ctx context.Context, id string) (domain.VibeArtifact, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, vibe_json, journal_title, journal_body, song_query, track_url, title, track_info_json,
			creator_uid, creator_name, creator_email, creator_photo, created_at
		FROM artifacts WHERE id = ?
	`, id)

	var (
		art                                                 domain.VibeArtifact
		vibeJSON                                            string
		trackURL, title, trackInfo                          sql.NullString
		creatorUID, creatorName, creatorEmail, creatorPhoto sql.NullString
		createdAt                                           int64
	)
	if err := row.Scan(
		&art.ID,
		&vibeJSON,
		&art.Journal.Title,
		&art.Journal.Body,
		&art.Journal.SongQuery,
		&trackURL,
		&title,
		&trackInfo,
		&creatorUID,
		&creatorName,
		&creatorEmail,
		&creatorPhoto,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VibeArtifact{}, domain.ErrNotFound
		}
		return domain.VibeArtifact{}, fmt.Errorf("failed to load artifact: %w", err)
	}

	if err := json.Unmarshal([]byte(vibeJSON), &art.Vibe); err != nil {
		return domain.VibeArtifact{}, fmt.Errorf("failed to decode vibe: %w", err)
	}
	if trackInfo.Valid {
		var info domain.TrackInfo
		if err := json.Unmarshal([]byte(trackInfo.String), &info); err != nil {
			return domain.VibeArtifact{}, fmt.Errorf("failed to decode track info: %w", err)
		}
		art.TrackInfo = &info
	}
	art.TrackURL = trackURL.String
	art.Title = title.String
	if creatorUID.Valid {
		art.Creator = &domain.Creator{
			UID:         creatorUID.String,
			DisplayName: creatorName.String,
			Email:       creatorEmail.String,
			PhotoURL:    creatorPhoto.String,
		}
	}
	art.CreatedAt = time.Unix(0, createdAt).UTC()

	return art, nil
}

// SetCreatorIfAbsent attaches creator in a single conditional update, so the
// first writer wins even when claims race.
func (a *Adapter) SetCreatorIfAbsent(ctx context.Context, id string, creator domain.Creator) (bool, error) {
	res, err := a.db.ExecContext(ctx, `
		UPDATE artifacts
		SET creator_uid = ?, creator_name = ?, creator_email = ?, creator_photo = ?
		WHERE id = ? AND creator_uid IS NULL
	`,
		creator.UID,
		nullString(creator.DisplayName),
		nullString(creator.Email),
		nullString(creator.PhotoURL),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set creator: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to set creator: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	exists, err := a.artifactExists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

func (a *Adapter) UpdateTrackInfo(ctx context.Context, id string, info domain.TrackInfo) error {
	encoded, err := encodeTrackInfo(&info)
	if err != nil {
		return err
	}
	res, err := a.db.ExecContext(ctx, "UPDATE artifacts SET track_info_json = ? WHERE id = ?", encoded, id)
	if err != nil {
		return fmt.Errorf("failed to update track info: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update track info: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *Adapter) PutLink(ctx context.Context, link domain.UserVibeLink) error {
	createdAt := link.CreatedAt
	if createdAt.IsZero() {
		createdAt = a.now()
	}
	query := `
		INSERT INTO user_vibe_links (uid, vibe_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(uid, vibe_id) DO NOTHING
	`
	if _, err := a.db.ExecContext(ctx, query, link.UID, link.VibeID, createdAt.UTC().UnixNano()); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}

func (a *Adapter) LinkExists(ctx context.Context, uid, vibeID string) (bool, error) {
	var one int
	err := a.db.QueryRowContext(ctx, "SELECT 1 FROM user_vibe_links WHERE uid = ? AND vibe_id = ?", uid, vibeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check link: %w", err)
	}
	return true, nil
}

func (a *Adapter) ListLinks(ctx context.Context, uid string) ([]domain.UserVibeLink, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT uid, vibe_id, created_at
		FROM user_vibe_links
		WHERE uid = ?
		ORDER BY created_at DESC, rowid DESC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := []domain.UserVibeLink{}
	for rows.Next() {
		var link domain.UserVibeLink
		var createdAt int64
		if err := rows.Scan(&link.UID, &link.VibeID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		link.CreatedAt = time.Unix(0, createdAt).UTC()
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}
	return links, nil
}

func (a *Adapter) artifactExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := a.db.QueryRowContext(ctx, "SELECT 1 FROM artifacts WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load artifact: %w", err)
	}
	return true, nil
}

func encodeTrackInfo(info *domain.TrackInfo) (sql.NullString, error) {
	if info == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(info)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode track info: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS artifacts (
		id TEXT PRIMARY KEY,
		vibe_json TEXT NOT NULL,
		journal_title TEXT NOT NULL,
		journal_body TEXT NOT NULL,
		song_query TEXT NOT NULL,
		track_url TEXT,
		title TEXT,
		track_info_json TEXT,
		creator_uid TEXT,
		creator_name TEXT,
		creator_email TEXT,
		creator_photo TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_vibe_links (
		uid TEXT NOT NULL,
		vibe_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (uid, vibe_id)
	);

	CREATE INDEX IF NOT EXISTS idx_user_vibe_links_created ON user_vibe_links (uid, created_at DESC);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	if _, err := a.db.Exec("ALTER TABLE artifacts ADD COLUMN track_info_json TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
