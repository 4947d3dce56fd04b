package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

// Context is passed to every command's Run.
type Context struct {
	Policy policy.Config
	Out    io.Writer
	JSON   bool
	Now    func() time.Time
}

// NewContext builds the policy for timezone on top of the default rules.
func NewContext(out io.Writer, timezone string, holidays []string, asJSON bool) (*Context, error) {
	cfg := policy.DefaultConfig()
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	cfg.Location = loc
	cfg.Holidays = holidays
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Context{Policy: cfg, Out: out, JSON: asJSON, Now: time.Now}, nil
}

// parseTime accepts RFC3339 or a local "YYYY-MM-DDTHH:MM" / "YYYY-MM-DD HH:MM"
// in the policy timezone.
func (c *Context) parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, c.Policy.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DDTHH:MM", s)
}

func (c *Context) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}
