package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vicentereig/line-cli/internal/session"
)

// ErrNoSession is returned when a profile has no saved session.
var ErrNoSession = errors.New("no session saved for profile")

type SessionStore struct {
	db *sql.DB
}

// Profile is the listing view of a saved session. Tokens are never
// included.
type Profile struct {
	Name      string    `json:"name"`
	Mid       string    `json:"mid"`
	HasAlbum  bool      `json:"has_album_token"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionStore(dbPath string) (*SessionStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %v", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			profile TEXT PRIMARY KEY,
			access_token TEXT NOT NULL,
			mid TEXT,
			timeline_token TEXT,
			album_token TEXT,
			updated_at TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	if err := ensureSessionColumns(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SessionStore{db: db}, nil
}

// ensureSessionColumns adds columns introduced after the first schema so
// older databases keep working.
func ensureSessionColumns(db *sql.DB) error {
	required := map[string]string{
		"application": "TEXT",
		"user_agent":  "TEXT",
		"language":    "TEXT",
	}

	for column, columnType := range required {
		exists, err := columnExists(db, "sessions", column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.Exec(fmt.Sprintf("ALTER TABLE sessions ADD COLUMN %s %s", column, columnType)); err != nil {
				if !strings.Contains(strings.ToLower(err.Error()), "duplicate") {
					return fmt.Errorf("failed to add column %s: %w", column, err)
				}
			}
		}
	}
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan schema info: %w", err)
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}

	return false, rows.Err()
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

// SaveSession upserts the session for profile. Empty token fields keep
// the previously stored value so tokens can be rotated one at a time.
func (s *SessionStore) SaveSession(profile string, sess session.Session) error {
	if profile == "" {
		return errors.New("profile name is required")
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions
		(profile, access_token, mid, timeline_token, album_token, application, user_agent, language, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			access_token = COALESCE(NULLIF(excluded.access_token, ''), sessions.access_token),
			mid = COALESCE(NULLIF(excluded.mid, ''), sessions.mid),
			timeline_token = COALESCE(NULLIF(excluded.timeline_token, ''), sessions.timeline_token),
			album_token = COALESCE(NULLIF(excluded.album_token, ''), sessions.album_token),
			application = COALESCE(NULLIF(excluded.application, ''), sessions.application),
			user_agent = COALESCE(NULLIF(excluded.user_agent, ''), sessions.user_agent),
			language = COALESCE(NULLIF(excluded.language, ''), sessions.language),
			updated_at = excluded.updated_at`,
		profile, sess.AccessToken, sess.Mid, sess.TimelineToken, sess.AlbumToken,
		sess.Application, sess.UserAgent, sess.Language, time.Now().UTC(),
	)
	return err
}

func (s *SessionStore) LoadSession(profile string) (session.Session, error) {
	var sess session.Session
	var mid, timeline, album, application, userAgent, language sql.NullString
	err := s.db.QueryRow(
		`SELECT access_token, mid, timeline_token, album_token, application, user_agent, language
		FROM sessions WHERE profile = ?`, profile,
	).Scan(&sess.AccessToken, &mid, &timeline, &album, &application, &userAgent, &language)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, fmt.Errorf("%w: %s", ErrNoSession, profile)
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to load session %s: %w", profile, err)
	}
	sess.Mid = mid.String
	sess.TimelineToken = timeline.String
	sess.AlbumToken = album.String
	sess.Application = application.String
	sess.UserAgent = userAgent.String
	sess.Language = language.String
	return sess, nil
}

func (s *SessionStore) DeleteSession(profile string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE profile = ?`, profile)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSession, profile)
	}
	return nil
}

func (s *SessionStore) ListProfiles() ([]Profile, error) {
	rows, err := s.db.Query(
		`SELECT profile, mid, album_token, updated_at FROM sessions ORDER BY profile`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		var mid, album sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(&p.Name, &mid, &album, &updatedAt); err != nil {
			return nil, err
		}
		p.Mid = mid.String
		p.HasAlbum = album.String != ""
		p.UpdatedAt = updatedAt.Time
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
