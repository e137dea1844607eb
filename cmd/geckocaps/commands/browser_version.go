package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/geckocaps/capabilities"
	"github.com/teranos/geckocaps/display"
	"github.com/teranos/geckocaps/errors"
)

// BrowserVersionCmd reports the version of a Firefox binary
var BrowserVersionCmd = &cobra.Command{
	Use:   "browser-version [binary]",
	Short: "Show the version of a Firefox binary",
	Long: `Determine the version of a Firefox binary, first from the
application.ini next to it and then by running it with --version.

Without an argument the binary from driver.binary is used, then firefox
on PATH and the usual install locations.

Examples:
  geckocaps browser-version
  geckocaps browser-version /opt/firefox/firefox --matches ">=115"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowserVersion,
}

func init() {
	BrowserVersionCmd.Flags().Bool("json", false, "Output result as JSON")
	BrowserVersionCmd.Flags().String("matches", "", "Also check the version against a comparison such as \">=115, <120\"")
}

// browserVersionResult is the JSON output of browser-version
type browserVersionResult struct {
	Binary     string `json:"binary"`
	Version    string `json:"version"`
	Source     string `json:"source"`
	Prerelease bool   `json:"prerelease"`
	Matches    *bool  `json:"matches,omitempty"`
}

func runBrowserVersion(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	fallback := cfg.Driver.Binary
	if len(args) == 1 {
		fallback = args[0]
	}
	resolver := newResolver()
	matcher := capabilities.NewMatcher(fallback, resolver)
	matcher.Init(capabilities.NewMap())
	binary := matcher.ChosenBinary()
	if binary == "" {
		return errors.New("no Firefox binary found; pass one or set driver.binary")
	}

	rec, err := resolver.ResolveRecord(binary)
	if err != nil {
		return statusError(errors.WrapSessionNotCreated(err, "failed to determine browser version"))
	}

	result := browserVersionResult{
		Binary:     binary,
		Version:    rec.Version.String(),
		Source:     rec.Source.String(),
		Prerelease: rec.Version.IsPrerelease(),
	}

	comparison, _ := cmd.Flags().GetString("matches")
	if comparison != "" {
		ok, err := matcher.CompareBrowserVersion(result.Version, comparison)
		if err != nil {
			return statusError(err)
		}
		result.Matches = &ok
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, result)
	}

	out := cmd.OutOrStdout()
	pterm.Fprintln(out, pterm.Info.Sprintf("%s: Firefox %s (from %s)", result.Binary, result.Version, result.Source))
	if result.Matches != nil {
		if *result.Matches {
			pterm.Fprintln(out, pterm.Success.Sprintf("Matches %q", comparison))
		} else {
			pterm.Fprintln(out, pterm.Warning.Sprintf("Does not match %q", comparison))
		}
	}
	return nil
}
