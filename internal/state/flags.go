package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// FlagArtworkRepairDone records that the one-time identifier repair has run.
const FlagArtworkRepairDone = "artwork_repair_done"

// RepairDone reports whether the one-time artwork repair has completed.
func (s *Store) RepairDone(ctx context.Context) (bool, error) {
	value, ok, err := s.flag(ctx, FlagArtworkRepairDone)
	if err != nil || !ok {
		return false, err
	}
	done, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s flag: %w", FlagArtworkRepairDone, err)
	}
	return done, nil
}

// SetRepairDone persists the repair flag.
func (s *Store) SetRepairDone(ctx context.Context, done bool) error {
	return s.setFlag(ctx, FlagArtworkRepairDone, strconv.FormatBool(done))
}

func (s *Store) flag(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ensureContext(ctx), "SELECT value FROM flags WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read flag %s: %w", name, err)
	}
	return value, true, nil
}

func (s *Store) setFlag(ctx context.Context, name, value string) error {
	_, err := s.exec(ctx,
		`INSERT INTO flags (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, s.timestamp())
	if err != nil {
		return fmt.Errorf("write flag %s: %w", name, err)
	}
	return nil
}
