package shortcuts

import (
	"strings"

	"steamsyncer/internal/appid"
	"steamsyncer/internal/games"
	"steamsyncer/internal/vdf"
)

// Field names inside a shortcut record.
const (
	FieldAppID               = "appid"
	FieldAppName             = "appname"
	FieldExe                 = "exe"
	FieldStartDir            = "StartDir"
	FieldIcon                = "icon"
	FieldShortcutPath        = "ShortcutPath"
	FieldLaunchOptions       = "LaunchOptions"
	FieldIsHidden            = "IsHidden"
	FieldAllowDesktopConfig  = "AllowDesktopConfig"
	FieldAllowOverlay        = "AllowOverlay"
	FieldOpenVR              = "OpenVR"
	FieldDevkit              = "Devkit"
	FieldDevkitGameID        = "DevkitGameID"
	FieldDevkitOverrideAppID = "DevkitOverrideAppID"
	FieldLastPlayTime        = "LastPlayTime"
	FieldTags                = "tags"
)

// Entry is a view over one shortcut record. Writes go straight to the
// underlying map owned by the Store.
type Entry struct {
	index  string
	fields *vdf.Map
}

// Index returns the record's position key ("0", "1", ...).
func (e Entry) Index() string { return e.index }

// AppName returns the display name.
func (e Entry) AppName() string { return e.str(FieldAppName) }

// Exe returns the executable exactly as stored, usually quote-wrapped.
func (e Entry) Exe() string { return e.str(FieldExe) }

// StartDir returns the start directory exactly as stored.
func (e Entry) StartDir() string { return e.str(FieldStartDir) }

// LaunchOptions returns the launch options.
func (e Entry) LaunchOptions() string { return e.str(FieldLaunchOptions) }

// Icon returns the icon path.
func (e Entry) Icon() string { return e.str(FieldIcon) }

// Key returns the identity key shared with candidates and overrides.
func (e Entry) Key() string { return games.Key(e.AppName(), e.Exe()) }

// StoredAppID reads the cached identifier without recomputation.
func (e Entry) StoredAppID() (uint32, bool) {
	return e.fields.GetUint32(e.field(FieldAppID))
}

// ComputedAppID derives the identifier from the current appname and exe.
func (e Entry) ComputedAppID() uint32 {
	return appid.Compute(e.AppName(), e.Exe())
}

// Stale reports whether a stored identifier disagrees with the computed one.
func (e Entry) Stale() bool {
	stored, ok := e.StoredAppID()
	return ok && stored != e.ComputedAppID()
}

// Tags returns the tag values in stored order.
func (e Entry) Tags() []string {
	tags, ok := e.fields.GetMap(e.field(FieldTags))
	if !ok {
		return nil
	}
	out := make([]string, 0, tags.Len())
	for _, key := range tags.Keys() {
		if value, ok := tags.GetString(key); ok {
			out = append(out, value)
		}
	}
	return out
}

// SetIcon records the icon path Steam shows for the shortcut.
func (e Entry) SetIcon(path string) { e.set(FieldIcon, path) }

// Fields exposes the raw record for fields without accessors.
func (e Entry) Fields() *vdf.Map { return e.fields }

func (e Entry) setAppID(id uint32) { e.set(FieldAppID, id) }

func (e Entry) applyOverride(o games.LaunchOverride) {
	if name := strings.TrimSpace(o.DisplayName); name != "" {
		e.set(FieldAppName, name)
	}
	if exe := strings.TrimSpace(o.ExePath); exe != "" {
		e.set(FieldExe, appid.Quote(exe))
	}
	if dir := strings.TrimSpace(o.StartDir); dir != "" {
		e.set(FieldStartDir, appid.Quote(dir))
	}
	e.set(FieldLaunchOptions, o.LaunchOptions)
}

func (e Entry) str(name string) string {
	value, _ := e.fields.GetString(e.field(name))
	return value
}

func (e Entry) set(name string, value any) {
	e.fields.Set(e.field(name), value)
}

// field resolves name against the record's existing keys case-insensitively;
// the spelling already present in the file wins ("AppName" vs "appname").
func (e Entry) field(name string) string {
	if e.fields.Has(name) {
		return name
	}
	for _, key := range e.fields.Keys() {
		if strings.EqualFold(key, name) {
			return key
		}
	}
	return name
}

func newRecord(candidate games.Candidate) *vdf.Map {
	tags := vdf.NewMap()
	if candidate.Source != "" {
		tags.Set("0", string(candidate.Source))
	}

	record := vdf.NewMap()
	record.Set(FieldAppID, candidate.AppID())
	record.Set(FieldAppName, candidate.Name)
	record.Set(FieldExe, appid.Quote(candidate.ExePath))
	record.Set(FieldStartDir, appid.Quote(candidate.StartDir))
	record.Set(FieldIcon, "")
	record.Set(FieldShortcutPath, "")
	record.Set(FieldLaunchOptions, candidate.LaunchOptions)
	record.Set(FieldIsHidden, uint32(0))
	record.Set(FieldAllowDesktopConfig, uint32(1))
	record.Set(FieldAllowOverlay, uint32(1))
	record.Set(FieldOpenVR, uint32(0))
	record.Set(FieldDevkit, uint32(0))
	record.Set(FieldDevkitGameID, "")
	record.Set(FieldDevkitOverrideAppID, uint32(0))
	record.Set(FieldLastPlayTime, uint32(0))
	record.Set(FieldTags, tags)
	return record
}
