package vdf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Node type markers used by the binary format.
const (
	typeMap     byte = 0x00
	typeString  byte = 0x01
	typeInt32   byte = 0x02
	typeFloat32 byte = 0x03
	typeUint64  byte = 0x07
	typeEnd     byte = 0x08
)

// maxDepth bounds map nesting while decoding.
const maxDepth = 32

// ErrUnsupportedType is returned for node types outside the shortcut subset.
var ErrUnsupportedType = errors.New("unsupported vdf node type")

// Unmarshal decodes a binary KeyValues document.
func Unmarshal(data []byte) (*Map, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a binary KeyValues document. The top level is an implicit map
// terminated by an end marker; a missing final marker at EOF is tolerated.
func Decode(r io.Reader) (*Map, error) {
	d := decoder{r: bufio.NewReader(r)}
	root, err := d.readMap(0, true)
	if err != nil {
		return nil, err
	}
	return root, nil
}

type decoder struct {
	r      *bufio.Reader
	offset int64
}

func (d *decoder) readMap(depth int, top bool) (*Map, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("vdf: nesting deeper than %d at offset %d", maxDepth, d.offset)
	}
	m := NewMap()
	for {
		kind, err := d.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && top {
				return m, nil
			}
			return nil, d.wrap("read node type", err)
		}
		d.offset++
		if kind == typeEnd {
			return m, nil
		}
		key, err := d.readCString()
		if err != nil {
			return nil, d.wrap("read key", err)
		}
		switch kind {
		case typeMap:
			child, err := d.readMap(depth+1, false)
			if err != nil {
				return nil, err
			}
			m.Set(key, child)
		case typeString:
			value, err := d.readCString()
			if err != nil {
				return nil, d.wrap(fmt.Sprintf("read string %q", key), err)
			}
			m.Set(key, value)
		case typeInt32:
			var buf [4]byte
			if err := d.readFull(buf[:]); err != nil {
				return nil, d.wrap(fmt.Sprintf("read int32 %q", key), err)
			}
			m.Set(key, binary.LittleEndian.Uint32(buf[:]))
		case typeFloat32:
			var buf [4]byte
			if err := d.readFull(buf[:]); err != nil {
				return nil, d.wrap(fmt.Sprintf("read float32 %q", key), err)
			}
			m.Set(key, math.Float32frombits(binary.LittleEndian.Uint32(buf[:])))
		case typeUint64:
			var buf [8]byte
			if err := d.readFull(buf[:]); err != nil {
				return nil, d.wrap(fmt.Sprintf("read uint64 %q", key), err)
			}
			m.Set(key, binary.LittleEndian.Uint64(buf[:]))
		default:
			return nil, fmt.Errorf("vdf: %w 0x%02x for key %q at offset %d", ErrUnsupportedType, kind, key, d.offset)
		}
	}
}

func (d *decoder) readCString() (string, error) {
	raw, err := d.r.ReadBytes(0x00)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	d.offset += int64(len(raw))
	return string(raw[:len(raw)-1]), nil
}

func (d *decoder) readFull(buf []byte) error {
	n, err := io.ReadFull(d.r, buf)
	d.offset += int64(n)
	return err
}

func (d *decoder) wrap(op string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("vdf: %s at offset %d: %w", op, d.offset, err)
}

// Marshal encodes m as a binary KeyValues document.
func Marshal(m *Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes m as a binary KeyValues document, including the final end
// marker of the implicit top-level map.
func Encode(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)
	if err := writeMap(bw, m, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func writeMap(w *bufio.Writer, m *Map, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("vdf: nesting deeper than %d", maxDepth)
	}
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		if err := writeNode(w, key, value, depth); err != nil {
			return err
		}
	}
	return w.WriteByte(typeEnd)
}

func writeNode(w *bufio.Writer, key string, value any, depth int) error {
	var scratch [8]byte
	switch v := value.(type) {
	case *Map:
		writeHeader(w, typeMap, key)
		return writeMap(w, v, depth+1)
	case string:
		writeHeader(w, typeString, key)
		writeCString(w, v)
	case uint32:
		writeHeader(w, typeInt32, key)
		binary.LittleEndian.PutUint32(scratch[:4], v)
		_, _ = w.Write(scratch[:4])
	case float32:
		writeHeader(w, typeFloat32, key)
		binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v))
		_, _ = w.Write(scratch[:4])
	case uint64:
		writeHeader(w, typeUint64, key)
		binary.LittleEndian.PutUint64(scratch[:], v)
		_, _ = w.Write(scratch[:])
	default:
		return fmt.Errorf("vdf: %w: key %q holds %T", ErrUnsupportedType, key, value)
	}
	return nil
}

func writeHeader(w *bufio.Writer, kind byte, key string) {
	_ = w.WriteByte(kind)
	writeCString(w, key)
}

func writeCString(w *bufio.Writer, value string) {
	_, _ = w.WriteString(value)
	_ = w.WriteByte(0x00)
}
