package vdf

// Map is an ordered string-keyed map of KeyValues nodes. Values are string,
// uint32 (int32 bit pattern), float32, uint64, or *Map.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len reports the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended; existing keys keep their
// position. Integer and boolean inputs are normalized to uint32.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = normalize(value)
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// GetString returns the string stored under key.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetUint32 returns the 32-bit integer stored under key.
func (m *Map) GetUint32(key string) (uint32, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(uint32)
	return n, ok
}

// GetMap returns the nested map stored under key.
func (m *Map) GetMap(key string) (*Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Map)
	return child, ok && child != nil
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for _, key := range m.keys {
		value := m.values[key]
		if child, ok := value.(*Map); ok {
			value = child.Clone()
		}
		out.keys = append(out.keys, key)
		out.values[key] = value
	}
	return out
}

// Equal reports whether two maps hold the same keys in the same order with
// equal values. A nil map equals only another nil map.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Len() != other.Len() {
		return false
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		a, b := m.values[key], other.values[key]
		am, aIsMap := a.(*Map)
		bm, bIsMap := b.(*Map)
		if aIsMap || bIsMap {
			if !aIsMap || !bIsMap || !am.Equal(bm) {
				return false
			}
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}

func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return uint32(int32(v))
	case int32:
		return uint32(v)
	case int64:
		return uint32(int32(v))
	case uint:
		return uint32(v)
	case bool:
		if v {
			return uint32(1)
		}
		return uint32(0)
	default:
		return value
	}
}
