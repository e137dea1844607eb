package display

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// EnvJSON forces JSON output for every command when set to a true value
const EnvJSON = "GECKOCAPS_JSON"

// ShouldOutputJSON determines if a command should output JSON based on
// its --json flag, the global flag and GECKOCAPS_JSON
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return envJSON()
	}

	// Explicit --json on the command wins in both directions
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
			return true
		}
	}

	return envJSON()
}

func envJSON() bool {
	on, err := strconv.ParseBool(os.Getenv(EnvJSON))
	return err == nil && on
}

// OutputJSON marshals and prints JSON to the command's stdout using
// display.MarshalJSON
func OutputJSON(cmd *cobra.Command, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if cmd == nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
