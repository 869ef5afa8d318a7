package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

/* =========================================================
   PATCH FIELD: tri-state (absent | null | value)
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// IsNull is true for an explicit JSON null.
func (p PatchField[T]) IsNull() bool { return p.Present && p.Value == nil }

/* =========================================================
   ID: accepts 7 or "7"
   ========================================================= */

// ID is a foreign key as sent by forms, either a JSON number or a numeric
// string. Empty string decodes to 0.
type ID uint

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return fmt.Errorf("id inválido: %q", s)
	}
	*id = ID(n)
	return nil
}

// Int accepts 2026 or "2026".
type Int int

func (v *Int) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("número inválido: %q", s)
	}
	*v = Int(n)
	return nil
}
