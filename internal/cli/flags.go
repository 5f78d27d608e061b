package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/brandkit/internal/colour"
	"github.com/jmylchreest/brandkit/internal/seed"
)

// Output formats.
const (
	formatTable = "table"
	formatHex   = "hex"
	formatJSON  = "json"
)

var (
	_ pflag.Value = (*filterFlag)(nil)
	_ pflag.Value = (*formatFlag)(nil)
	_ pflag.Value = (*seedModeFlag)(nil)
	_ pflag.Value = (*levelFlag)(nil)
)

// filterFlag is a --filter value restricted to the supported resample filters.
type filterFlag colour.ResampleFilter

func (f *filterFlag) String() string { return string(*f) }
func (f *filterFlag) Type() string   { return "filter" }

func (f *filterFlag) Set(s string) error {
	v := colour.ResampleFilter(strings.ToLower(s))
	if !colour.IsValidFilter(v) {
		return fmt.Errorf("must be one of %v", colour.ValidFilters())
	}
	*f = filterFlag(v)
	return nil
}

// formatFlag is a --format value.
type formatFlag string

func validFormats() []string { return []string{formatTable, formatHex, formatJSON} }

func (f *formatFlag) String() string { return string(*f) }
func (f *formatFlag) Type() string   { return "format" }

func (f *formatFlag) Set(s string) error {
	s = strings.ToLower(s)
	if !slices.Contains(validFormats(), s) {
		return fmt.Errorf("must be one of %s", strings.Join(validFormats(), ", "))
	}
	*f = formatFlag(s)
	return nil
}

// seedModeFlag is a --seed-mode value.
type seedModeFlag seed.Mode

func (f *seedModeFlag) String() string { return string(*f) }
func (f *seedModeFlag) Type() string   { return "mode" }

func (f *seedModeFlag) Set(s string) error {
	m, err := seed.ParseMode(strings.ToLower(s))
	if err != nil {
		return err
	}
	*f = seedModeFlag(m)
	return nil
}

// levelFlag is a --log-level value accepted by hclog.
type levelFlag string

func (f *levelFlag) String() string { return string(*f) }
func (f *levelFlag) Type() string   { return "level" }

func (f *levelFlag) Set(s string) error {
	if hclog.LevelFromString(s) == hclog.NoLevel {
		return fmt.Errorf("must be one of trace, debug, info, warn, error, off")
	}
	*f = levelFlag(strings.ToLower(s))
	return nil
}
