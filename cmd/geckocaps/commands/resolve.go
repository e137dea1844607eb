package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/capabilities"
	"github.com/teranos/geckocaps/display"
	"github.com/teranos/geckocaps/logger"
)

// ResolveCmd turns a capabilities object into a session launch configuration
var ResolveCmd = &cobra.Command{
	Use:   "resolve <capabilities.json|capabilities.toml|->",
	Short: "Resolve the launch configuration for a capabilities object",
	Long: `Match a capabilities object against the local Firefox and build the
launch configuration a new session would use: binary, profile, arguments,
environment, preferences, Android options and WebSocket transport.

An embedded profile archive is extracted to a temporary directory, which
is removed again unless --keep-profile is given.

Examples:
  geckocaps resolve caps.json
  geckocaps resolve caps.json --binary /opt/firefox/firefox
  geckocaps resolve caps.toml --json --keep-profile`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	ResolveCmd.Flags().String("binary", "", "Firefox binary used when the capabilities name none (overrides driver.binary)")
	ResolveCmd.Flags().Bool("json", false, "Output result as JSON")
	ResolveCmd.Flags().Bool("keep-profile", false, "Keep an extracted profile directory")
}

// resolveResult is the JSON output of resolve
type resolveResult struct {
	Capabilities *capabilities.Map           `json:"capabilities"`
	Session      *capabilities.SessionConfig `json:"session"`
	CommandLine  string                      `json:"commandLine"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := am.BindFlag("driver.binary", cmd.Flags().Lookup("binary")); err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	settings, err := transportSettings(cfg)
	if err != nil {
		return err
	}

	caps, err := readCapabilities(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if logger.ShouldLogTrace(cfg.Log.Verbosity) {
		if data, err := display.MarshalJSON(caps); err == nil {
			logger.Debugw("Read capabilities", logger.FieldPath, args[0], "capabilities", string(data))
		}
	}

	matcher := capabilities.NewMatcher(cfg.Driver.Binary, newResolver())
	matcher.Init(caps)
	matched, err := matcher.Match(caps)
	if err != nil {
		return statusError(err)
	}

	session, err := newBuilder(cfg).Build(matcher.ChosenBinary(), settings, matched)
	if err != nil {
		return statusError(err)
	}

	keep, _ := cmd.Flags().GetBool("keep-profile")
	if keep && session.Profile.HasPath() && session.Profile.Profile.Temporary() {
		logger.Infow("Keeping profile directory", logger.FieldPath, session.Profile.Profile.Path)
	}
	if !keep {
		defer func() {
			if err := session.Release(); err != nil {
				logger.Warnw("Failed to remove profile", logger.FieldError, err)
			}
		}()
	}

	result := resolveResult{
		Capabilities: matched,
		Session:      session,
		CommandLine:  shellquote.Join(session.CommandLine()...),
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, result)
	}
	return renderSession(cmd.OutOrStdout(), result)
}

func renderSession(out io.Writer, result resolveResult) error {
	session := result.Session

	pterm.Fprintln(out, pterm.DefaultSection.Sprint("Session configuration"))

	profile := session.Profile.Kind.String()
	switch {
	case session.Profile.HasPath():
		profile += " " + session.Profile.Profile.Path
	case session.Profile.Name != "":
		profile += " " + session.Profile.Name
	}

	logLevel := "default"
	if session.Log.Level != nil {
		logLevel = session.Log.Level.String()
	}

	data := pterm.TableData{
		{"Setting", "Value"},
		{"Binary", session.Binary},
		{"Profile", profile},
		{"Log level", logLevel},
		{"WebSocket", strconv.FormatBool(session.UseWebSocket)},
	}
	if session.Android != nil {
		data = append(data,
			[]string{"Android package", session.Android.Package},
			[]string{"Android activity", session.Android.Activity},
			[]string{"Android storage", session.Android.Storage.String()},
		)
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(out, table)

	if len(session.Env) > 0 {
		pterm.Fprintln(out, pterm.Info.Sprint("Environment:"))
		for _, env := range session.Env {
			pterm.Fprintln(out, fmt.Sprintf("  %s=%s", env.Name, env.Value))
		}
	}

	if len(session.Prefs) > 0 {
		pterm.Fprintln(out, pterm.Info.Sprint("Preferences:"))
		for _, pref := range session.Prefs {
			pterm.Fprintln(out, "  "+pref.UserPrefLine())
		}
	}

	pterm.Fprintln(out, pterm.Info.Sprint("Command line:"))
	pterm.Fprintln(out, "  "+result.CommandLine)
	return nil
}
