package sharedtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a GameDate.
const DateLayout = "2006-01-02"

// GameDate is a civil calendar date with no time-of-day or zone.
type GameDate struct {
	t time.Time
}

// NewGameDate builds a GameDate from its parts.
func NewGameDate(year int, month time.Month, day int) GameDate {
	return GameDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// GameDateOf truncates t to its calendar date in t's own location.
func GameDateOf(t time.Time) GameDate {
	return NewGameDate(t.Year(), t.Month(), t.Day())
}

// ParseGameDate parses a YYYY-MM-DD date.
func ParseGameDate(s string) (GameDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return GameDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return GameDate{t: t}, nil
}

func (d GameDate) IsZero() bool      { return d.t.IsZero() }
func (d GameDate) Time() time.Time   { return d.t }
func (d GameDate) Year() int         { return d.t.Year() }
func (d GameDate) Month() time.Month { return d.t.Month() }
func (d GameDate) String() string    { return d.t.Format(DateLayout) }

func (d GameDate) Before(o GameDate) bool { return d.t.Before(o.t) }
func (d GameDate) After(o GameDate) bool  { return d.t.After(o.t) }
func (d GameDate) Equal(o GameDate) bool  { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1.
func (d GameDate) Compare(o GameDate) int { return d.t.Compare(o.t) }

// Value implements driver.Valuer.
func (d GameDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *GameDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = GameDate{}
		return nil
	case time.Time:
		*d = NewGameDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into GameDate", src)
	}
}

func (d *GameDate) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseGameDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d GameDate) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *GameDate) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = GameDate{}
		return nil
	}
	parsed, err := ParseGameDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d GameDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *GameDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = GameDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("game date must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}
