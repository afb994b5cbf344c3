package pkgmgr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotObject is returned when package.json does not hold a JSON object.
var ErrNotObject = errors.New("manifest is not a JSON object")

type member struct {
	key   string
	value json.RawMessage
}

// ReorderDependencies rewrites the package.json at path so dependencies
// precede devDependencies. Every other key keeps its position. It reports
// whether the file was rewritten.
func ReorderDependencies(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	members, err := decodeObject(data)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	deps, devDeps := indexOf(members, "dependencies"), indexOf(members, "devDependencies")
	if deps < 0 || devDeps < 0 || deps < devDeps {
		return false, nil
	}

	moved := members[deps]
	members = append(members[:deps], members[deps+1:]...)
	members = append(members[:devDeps], append([]member{moved}, members[devDeps:]...)...)

	out, err := encodeObject(members)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}

func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return members, nil
}

func encodeObject(members []member) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := marshalString(m.key)
		if err != nil {
			return nil, err
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(m.value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')

	return out.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func indexOf(members []member, key string) int {
	for i, m := range members {
		if m.key == key {
			return i
		}
	}
	return -1
}
