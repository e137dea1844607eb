package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/geckocaps/capabilities"
	"github.com/teranos/geckocaps/display"
	"github.com/teranos/geckocaps/errors"
)

// ValidateCmd checks the moz: capabilities of a file without resolving a session
var ValidateCmd = &cobra.Command{
	Use:   "validate <capabilities.json|capabilities.toml|->",
	Short: "Validate moz: capabilities",
	Long: `Validate every moz: capability in a capabilities object.

moz:firefoxOptions is checked field by field: unknown fields, wrong JSON
types and a binary that is not a Firefox executable are reported with the
WebDriver error status a new session request would fail with.

Examples:
  geckocaps validate caps.json
  geckocaps validate caps.toml --json
  echo '{"moz:firefoxOptions": {"args": ["-headless"]}}' | geckocaps validate -`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	ValidateCmd.Flags().Bool("json", false, "Output result as JSON")
}

// statusResult reports a capabilities check
type statusResult struct {
	Valid   bool   `json:"valid"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func newStatusResult(err error) statusResult {
	if err == nil {
		return statusResult{Valid: true}
	}
	return statusResult{Status: errors.Status(err), Message: err.Error()}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	caps, err := readCapabilities(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	matcher := capabilities.NewMatcher(cfg.Driver.Binary, newResolver())
	matcher.Init(caps)
	checkErr := matcher.ValidateAll(caps)

	if display.ShouldOutputJSON(cmd) {
		if err := display.OutputJSON(cmd, newStatusResult(checkErr)); err != nil {
			return err
		}
		return checkErr
	}

	if checkErr != nil {
		return statusError(checkErr)
	}
	pterm.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprint("Capabilities are valid"))
	return nil
}

// statusError prefixes err with its WebDriver status
func statusError(err error) error {
	return errors.Wrap(err, errors.Status(err))
}
