package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList хранится в БД как JSON-массив (jsonb в Postgres, TEXT в SQLite).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := StringList{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, (*[]string)(&out)); err != nil {
			return fmt.Errorf("scan string list: %w", err)
		}
	}
	*l = out
	return nil
}

// StringMap: JSON-объект строк (соцсети профиля).
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(m))
	return string(b), err
}

func (m *StringMap) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := StringMap{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, (*map[string]string)(&out)); err != nil {
			return fmt.Errorf("scan string map: %w", err)
		}
	}
	*m = out
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json source %T", src)
	}
}
