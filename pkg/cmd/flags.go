package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/c9s/connectors/pkg/types"
)

func addFetchFlags(flags *pflag.FlagSet) {
	flags.String("since", "", "start time, unix milliseconds or RFC3339")
	flags.String("until", "", "end time, unix milliseconds or RFC3339")
	flags.Int("limit", 0, "max number of records")
}

func addBatchFlag(flags *pflag.FlagSet) {
	flags.Bool("batch", false, "page through the whole --since/--until range")
}

// batchRange reports whether --batch is set and the range to page through.
// The range ends now when --until is not given.
func batchRange(cmd *cobra.Command, options *types.FetchOptions) (since, until time.Time, ok bool, err error) {
	if ok, _ = cmd.Flags().GetBool("batch"); !ok {
		return
	}

	if options.Since == nil {
		err = fmt.Errorf("--batch requires --since")
		return
	}

	since, until = *options.Since, time.Now()
	if options.Until != nil {
		until = *options.Until
	}
	return
}

func requiredString(cmd *cobra.Command, name string) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return value, nil
}

func parseTimeFlag(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(ms)
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return &t, nil
}

func fetchOptions(cmd *cobra.Command) (*types.FetchOptions, error) {
	options := &types.FetchOptions{}

	var err error
	for name, dst := range map[string]**time.Time{"since": &options.Since, "until": &options.Until} {
		raw, _ := cmd.Flags().GetString(name)
		if *dst, err = parseTimeFlag(raw); err != nil {
			return nil, err
		}
	}

	if options.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return nil, err
	}
	return options, nil
}
