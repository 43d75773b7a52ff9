// Package cmd provides shared helpers for slipway's CLI commands.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// TimingFlagName is the persistent flag that enables per-activity timing
// output.
const TimingFlagName = "timing"

// ErrNilCommand is returned when a nil command is passed to a flag helper.
var ErrNilCommand = errors.New("command is nil")

// ErrFlagNotFound is returned when the timing flag is not registered on the
// command or any of its parents.
var ErrFlagNotFound = errors.New("flag not found")

// IsTimingEnabled reports whether the timing flag is set on the command,
// searching local, persistent, and inherited flags.
func IsTimingEnabled(cmd *cobra.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilCommand
	}

	flag := lookupTimingFlag(cmd)
	if flag == nil {
		return false, fmt.Errorf("%w: %s", ErrFlagNotFound, TimingFlagName)
	}

	enabled, err := cmd.Flags().GetBool(TimingFlagName)
	if err == nil {
		return enabled, nil
	}

	return flag.Value.String() == "true", nil
}

func lookupTimingFlag(cmd *cobra.Command) *pflag.Flag {
	if flag := cmd.Flags().Lookup(TimingFlagName); flag != nil {
		return flag
	}

	if flag := cmd.PersistentFlags().Lookup(TimingFlagName); flag != nil {
		return flag
	}

	return cmd.InheritedFlags().Lookup(TimingFlagName)
}

// MaybeTimer returns the timer when timing output is enabled, nil otherwise.
// Notify treats a nil timer as "no timing suffix".
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	if cmd == nil || tmr == nil {
		return nil
	}

	enabled, err := IsTimingEnabled(cmd)
	if err != nil || !enabled {
		return nil
	}

	return tmr
}
