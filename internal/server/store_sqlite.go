package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/pentathlon/bazar/internal/shell"
)

// timeLayout matches the strftime('%Y-%m-%dT%H:%M:%fZ') format the schema
// uses. RFC 3339 UTC strings compare correctly as text, which the expiry
// checks below rely on.
const timeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) ClaimSchool(ctx context.Context, name, token string, now time.Time) (School, bool, error) {
	nowStr := formatTime(now)
	expires := formatTime(now.Add(sessionTTL))

	// Two passes: if the guarded insert loses a race on the unique name, the
	// second pass resolves against the row the winner created.
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		// Refresh the claim in one conditional update. Claimable: no token,
		// our own token, or an expired foreign session.
		res, err := s.db.ExecContext(ctx, `
			UPDATE schools
			SET login_at = ?, session_token = ?, session_expires = ?
			WHERE school_name = ?
			  AND (session_token IS NULL
			       OR session_token = ?
			       OR (session_expires IS NOT NULL AND session_expires <= ?))
		`, nowStr, token, expires, name, token, nowStr)
		if err != nil {
			return School{}, false, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			sc, err := s.schoolByName(ctx, name)
			return sc, false, err
		}

		var exists int
		err = s.db.QueryRowContext(ctx,
			`SELECT 1 FROM schools WHERE school_name = ?`, name).Scan(&exists)
		if err == nil {
			// Row exists but was not claimable: an active foreign session.
			return School{}, false, ErrSessionConflict
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return School{}, false, err
		}

		res, err = s.db.ExecContext(ctx, `
			INSERT INTO schools (school_name, login_at, session_token, session_expires)
			SELECT ?, ?, ?, ?
			WHERE (SELECT COUNT(*) FROM schools) < ?
		`, name, nowStr, token, expires, maxSchools)
		if err != nil {
			// Most likely the unique name constraint: another session
			// inserted first. Retry to classify.
			lastErr = err
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return School{}, false, ErrCapacityFull
		}
		sc, err := s.schoolByName(ctx, name)
		return sc, true, err
	}
	return School{}, false, lastErr
}

func (s *SQLiteStore) PressBuzzer(ctx context.Context, name, token string, now time.Time) (School, error) {
	// The schools_press trigger overrides pressed_at with the database clock
	// and increments press_count.
	res, err := s.db.ExecContext(ctx, `
		UPDATE schools SET pressed_at = ?
		WHERE school_name = ? AND session_token = ?
	`, formatTime(now), name, token)
	if err != nil {
		return School{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM schools WHERE school_name = ?`, name).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return School{}, ErrNotFound
		}
		if err != nil {
			return School{}, err
		}
		return School{}, ErrSessionConflict
	}
	return s.schoolByName(ctx, name)
}

func (s *SQLiteStore) schoolByName(ctx context.Context, name string) (School, error) {
	var sc School
	err := s.db.QueryRowContext(ctx, `
		SELECT id, school_name, created_at, login_at, pressed_at, press_count,
		       session_token, session_expires
		FROM schools WHERE school_name = ?
	`, name).Scan(&sc.ID, &sc.Name, timeStr(&sc.CreatedAt), nullStr(&sc.LoginAt),
		nullStr(&sc.PressedAt), &sc.PressCount, nullStr(&sc.SessionToken),
		nullStr(&sc.SessionExpires))
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	return sc, err
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]School, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, school_name, created_at, pressed_at, press_count
		FROM schools
		WHERE pressed_at IS NOT NULL
		ORDER BY pressed_at ASC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []School
	for rows.Next() {
		var sc School
		if err := rows.Scan(&sc.ID, &sc.Name, timeStr(&sc.CreatedAt),
			nullStr(&sc.PressedAt), &sc.PressCount); err != nil {
			return nil, err
		}
		schools = append(schools, sc)
	}
	return schools, rows.Err()
}

func (s *SQLiteStore) ResetPresses(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE schools SET pressed_at = NULL, press_count = 0`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) DeleteAllSchools(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schools`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) AdminCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, id, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)
	`, id, email, passwordHash)
	return err
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id)
		VALUES (?)
		RETURNING id
	`, adminID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}

func (s *SQLiteStore) DeviceState(ctx context.Context, deviceID string) (shell.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM device_states WHERE device_id = ?
	`, deviceID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return shell.State{}, ErrNotFound
	}
	if err != nil {
		return shell.State{}, err
	}

	var state shell.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return shell.State{}, err
	}
	return state, nil
}

func (s *SQLiteStore) SaveDeviceState(ctx context.Context, deviceID string, state shell.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO device_states (device_id, data)
		VALUES (?, ?)
		ON CONFLICT (device_id) DO UPDATE
		SET data = excluded.data,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, deviceID, string(data))
	return err
}

// nullStr adapts a **string field to sql.Scanner semantics for nullable
// text columns. The libsql driver decodes timestamp-shaped TEXT values as
// time.Time, so those are formatted back to the schema's layout.
func nullStr(dst **string) *nullString {
	return &nullString{dst: dst}
}

type nullString struct {
	dst **string
}

func (n *nullString) Scan(v any) error {
	if v == nil {
		*n.dst = nil
		return nil
	}
	switch s := v.(type) {
	case string:
		val := s
		*n.dst = &val
	case []byte:
		val := string(s)
		*n.dst = &val
	case time.Time:
		val := s.UTC().Format(timeLayout)
		*n.dst = &val
	default:
		return errors.New("unsupported type for nullable string")
	}
	return nil
}

// timeStr is the non-nullable counterpart of nullStr, for TEXT columns like
// created_at that the driver may also decode as time.Time.
func timeStr(dst *string) *timeString {
	return &timeString{dst: dst}
}

type timeString struct {
	dst *string
}

func (t *timeString) Scan(v any) error {
	switch s := v.(type) {
	case string:
		*t.dst = s
	case []byte:
		*t.dst = string(s)
	case time.Time:
		*t.dst = s.UTC().Format(timeLayout)
	default:
		return errors.New("unsupported type for text column")
	}
	return nil
}
