package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"steamsyncer/internal/games"
)

// Overrides returns every launch override keyed by identity key.
func (s *Store) Overrides(ctx context.Context) (map[string]games.LaunchOverride, error) {
	list, err := s.ListOverrides(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]games.LaunchOverride, len(list))
	for _, o := range list {
		out[o.Key] = o
	}
	return out, nil
}

// ListOverrides returns the overrides ordered by key.
func (s *Store) ListOverrides(ctx context.Context) ([]games.LaunchOverride, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT key, display_name, exe_path, start_dir, launch_options FROM launch_overrides ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer rows.Close()

	var out []games.LaunchOverride
	for rows.Next() {
		var (
			o                                  games.LaunchOverride
			name, exe, startDir, launchOptions sql.NullString
		)
		if err := rows.Scan(&o.Key, &name, &exe, &startDir, &launchOptions); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		o.DisplayName = name.String
		o.ExePath = exe.String
		o.StartDir = startDir.String
		o.LaunchOptions = launchOptions.String
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

// UpsertOverride inserts or replaces the override for o.Key.
func (s *Store) UpsertOverride(ctx context.Context, o games.LaunchOverride) error {
	o.Key = strings.TrimSpace(o.Key)
	if o.Key == "" {
		return errors.New("override key required")
	}
	_, err := s.exec(ctx,
		`INSERT INTO launch_overrides (key, display_name, exe_path, start_dir, launch_options, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   display_name = excluded.display_name,
		   exe_path = excluded.exe_path,
		   start_dir = excluded.start_dir,
		   launch_options = excluded.launch_options,
		   updated_at = excluded.updated_at`,
		o.Key,
		nullableString(o.DisplayName),
		nullableString(o.ExePath),
		nullableString(o.StartDir),
		nullableString(o.LaunchOptions),
		s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// RemoveOverride deletes the override for key and reports whether it existed.
func (s *Store) RemoveOverride(ctx context.Context, key string) (bool, error) {
	res, err := s.exec(ctx, "DELETE FROM launch_overrides WHERE key = ?", strings.TrimSpace(key))
	if err != nil {
		return false, fmt.Errorf("remove override: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
