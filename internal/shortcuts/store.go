package shortcuts

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"steamsyncer/internal/fileutil"
	"steamsyncer/internal/games"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/vdf"
)

const (
	rootKey = "shortcuts"
	// BackupSuffix is appended to the file name of the pre-save copy.
	BackupSuffix = ".bak"
)

// Store is the in-memory form of one shortcuts.vdf file.
type Store struct {
	root *vdf.Map
	list *vdf.Map
}

// New returns an empty store.
func New() *Store {
	root := vdf.NewMap()
	list := vdf.NewMap()
	root.Set(rootKey, list)
	return &Store{root: root, list: list}
}

// Load reads path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("read shortcuts: %w", err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return store, nil
}

// Parse decodes a binary shortcuts document. An empty document or one without
// the "shortcuts" wrapper yields an empty store that keeps any other root keys.
func Parse(data []byte) (*Store, error) {
	if len(data) == 0 {
		return New(), nil
	}
	root, err := vdf.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	key := rootKey
	for _, candidate := range root.Keys() {
		if strings.EqualFold(candidate, rootKey) {
			key = candidate
			break
		}
	}
	list, ok := root.GetMap(key)
	if !ok {
		list = vdf.NewMap()
		root.Set(key, list)
	}
	return &Store{root: root, list: list}, nil
}

// Len returns the number of entries.
func (s *Store) Len() int { return s.list.Len() }

// Entries returns the entries in index order.
func (s *Store) Entries() []Entry {
	keys := s.list.Keys()
	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		record, ok := s.list.GetMap(key)
		if !ok {
			continue
		}
		out = append(out, Entry{index: key, fields: record})
	}
	return out
}

// Lookup returns the first entry with the given identity key.
func (s *Store) Lookup(key string) (Entry, bool) {
	for _, entry := range s.Entries() {
		if entry.Key() == key {
			return entry, true
		}
	}
	return Entry{}, false
}

// Dedupe drops every entry whose key was already seen earlier in index order
// and renumbers the survivors "0".."n-1". It returns the number removed.
func (s *Store) Dedupe() int {
	seen := make(map[string]struct{}, s.list.Len())
	kept := make([]*vdf.Map, 0, s.list.Len())
	removed := 0
	for _, entry := range s.Entries() {
		key := entry.Key()
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, entry.fields)
	}
	if removed == 0 && s.contiguous() {
		return 0
	}
	s.reindex(kept)
	return removed
}

func (s *Store) contiguous() bool {
	for i, key := range s.list.Keys() {
		if key != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

func (s *Store) reindex(records []*vdf.Map) {
	list := vdf.NewMap()
	for i, record := range records {
		list.Set(strconv.Itoa(i), record)
	}
	for _, key := range s.root.Keys() {
		if current, ok := s.root.GetMap(key); ok && current == s.list {
			s.root.Set(key, list)
			break
		}
	}
	s.list = list
}

// RenameFunc moves artwork from one identifier to another.
type RenameFunc func(oldID, newID uint32)

// RepairOptions controls a Repair pass.
type RepairOptions struct {
	// RunRepair forces identifier correction (with artwork rename) for every
	// stale entry, not only the ones touched by an override.
	RunRepair bool
	Overrides map[string]games.LaunchOverride
	Rename    RenameFunc
	Logger    *slog.Logger
}

// RepairReport counts what a Repair pass changed.
type RepairReport struct {
	Repaired         int
	Resynced         int
	Backfilled       int
	OverridesApplied int
	// Merged counts entries dropped because an override gave them the key
	// of an entry already in the list.
	Merged int
}

// Changed reports whether the pass modified any entry.
func (r RepairReport) Changed() bool {
	return r.Repaired+r.Resynced+r.Backfilled+r.OverridesApplied+r.Merged > 0
}

// Repair applies overrides and brings every stored appid in line with the
// entry's computed identifier. Entries that are repaired have their artwork
// renamed through opts.Rename before the new identifier is stored. When an
// override moves an entry onto an existing key, the later entry in index
// order is dropped.
func (s *Store) Repair(opts RepairOptions) RepairReport {
	logger := logging.NewComponentLogger(opts.Logger, "shortcuts")
	var report RepairReport
	for _, entry := range s.Entries() {
		stored, hasStored := entry.StoredAppID()
		old := stored
		if !hasStored {
			old = entry.ComputedAppID()
		}

		overrideApplied := false
		if override, ok := opts.Overrides[entry.Key()]; ok {
			entry.applyOverride(override)
			overrideApplied = true
			report.OverridesApplied++
		}

		expected := entry.ComputedAppID()
		switch {
		case (opts.RunRepair || overrideApplied) && old != expected:
			if opts.Rename != nil {
				opts.Rename(old, expected)
			}
			entry.setAppID(expected)
			report.Repaired++
			logger.Info("repaired shortcut appid",
				logging.Game(entry.AppName()),
				logging.Uint64("old_appid", uint64(old)),
				logging.AppID(expected),
				logging.String(logging.FieldEventType, "shortcut_repaired"),
			)
		case hasStored && stored != expected:
			entry.setAppID(expected)
			report.Resynced++
			logger.Info("updated shortcut appid to match steam",
				logging.Game(entry.AppName()),
				logging.AppID(expected),
			)
		case !hasStored:
			entry.setAppID(expected)
			report.Backfilled++
		}
	}
	if report.OverridesApplied > 0 {
		if report.Merged = s.Dedupe(); report.Merged > 0 {
			logger.Info("merged shortcuts sharing a key after overrides",
				logging.Int("removed", report.Merged),
				logging.String(logging.FieldEventType, "shortcut_merged"),
			)
		}
	}
	return report
}

// AddReport lists the candidates appended by Add.
type AddReport struct {
	Added  []games.Candidate
	AppIDs []uint32
}

// Add appends an entry for each candidate whose key is not yet present.
func (s *Store) Add(candidates []games.Candidate) AddReport {
	existing := make(map[string]struct{}, s.list.Len())
	for _, entry := range s.Entries() {
		existing[entry.Key()] = struct{}{}
	}

	var report AddReport
	next := s.nextIndex()
	for _, candidate := range candidates {
		key := candidate.Key()
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		s.list.Set(strconv.Itoa(next), newRecord(candidate))
		next++
		report.Added = append(report.Added, candidate)
		report.AppIDs = append(report.AppIDs, candidate.AppID())
	}
	return report
}

func (s *Store) nextIndex() int {
	next := s.list.Len()
	for _, key := range s.list.Keys() {
		if n, err := strconv.Atoi(key); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

// Bytes serializes the store.
func (s *Store) Bytes() ([]byte, error) {
	return vdf.Marshal(s.root)
}

// Save backs up the current file to path+BackupSuffix and atomically replaces
// it with the serialized store.
func (s *Store) Save(path string) error {
	data, err := s.Bytes()
	if err != nil {
		return fmt.Errorf("encode shortcuts: %w", err)
	}
	if _, err := fileutil.Backup(path, BackupSuffix); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write shortcuts: %w", err)
	}
	return nil
}
