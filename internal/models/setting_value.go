package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SettingKind identifies the variant held by a SettingValue.
type SettingKind int

const (
	SettingNull SettingKind = iota
	SettingString
	SettingNumber
	SettingBool
)

// SettingValue is a tagged-union value for custom preference settings. Only
// scalar JSON values are accepted: string, number, boolean, or null. Arrays
// and objects are rejected on decode to keep the custom-settings map flat and
// portable.
type SettingValue struct {
	kind SettingKind
	str  string
	num  float64
	b    bool
}

// StringSetting builds a string-valued setting.
func StringSetting(v string) SettingValue { return SettingValue{kind: SettingString, str: v} }

// NumberSetting builds a number-valued setting.
func NumberSetting(v float64) SettingValue { return SettingValue{kind: SettingNumber, num: v} }

// BoolSetting builds a boolean-valued setting.
func BoolSetting(v bool) SettingValue { return SettingValue{kind: SettingBool, b: v} }

// NullSetting builds an explicit null setting.
func NullSetting() SettingValue { return SettingValue{kind: SettingNull} }

// Kind returns the variant tag.
func (v SettingValue) Kind() SettingKind { return v.kind }

// Str returns the string variant; ok is false for other kinds. Named to stay
// clear of the fmt.Stringer contract.
func (v SettingValue) Str() (s string, ok bool) { return v.str, v.kind == SettingString }

// Number returns the number variant; ok is false for other kinds.
func (v SettingValue) Number() (n float64, ok bool) { return v.num, v.kind == SettingNumber }

// Bool returns the boolean variant; ok is false for other kinds.
func (v SettingValue) Bool() (b bool, ok bool) { return v.b, v.kind == SettingBool }

// IsNull reports whether the value is the null variant.
func (v SettingValue) IsNull() bool { return v.kind == SettingNull }

// MarshalJSON implements json.Marshaler.
func (v SettingValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case SettingString:
		return json.Marshal(v.str)
	case SettingNumber:
		return json.Marshal(v.num)
	case SettingBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler, rejecting arrays and objects.
func (v *SettingValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = NullSetting()
	case string:
		*v = StringSetting(val)
	case float64:
		*v = NumberSetting(val)
	case bool:
		*v = BoolSetting(val)
	default:
		return fmt.Errorf("custom setting values must be string, number, boolean, or null; got %T", raw)
	}
	return nil
}

// SettingsMap is a string-keyed map of setting values persisted as a JSON
// object column.
type SettingsMap map[string]SettingValue

// Merge upserts the supplied keys into the map, leaving other keys untouched.
func (m SettingsMap) Merge(updates SettingsMap) SettingsMap {
	if m == nil {
		m = SettingsMap{}
	}
	for k, v := range updates {
		m[k] = v
	}
	return m
}

// Value implements driver.Valuer.
func (m SettingsMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *SettingsMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported type for SettingsMap: %T", src)
}
