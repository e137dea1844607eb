package capabilities

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/teranos/geckocaps/android"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
	"github.com/teranos/geckocaps/mozargs"
	"github.com/teranos/geckocaps/mozprofile"
	"go.uber.org/zap"
)

// SessionConfig is the launch configuration for one session. It is owned
// by the caller of Build; Release removes the temporary profile if the
// session never starts.
type SessionConfig struct {
	Binary  string            `json:"binary,omitempty"`
	Profile mozprofile.Source `json:"profile"`
	// Args is nil when no arguments were requested or injected
	Args []string `json:"args"`
	// Env is nil when the client sent no env object
	Env          []EnvVar          `json:"env,omitempty"`
	Log          LogOptions        `json:"log"`
	Prefs        []mozprofile.Pref `json:"prefs,omitempty"`
	Android      *android.Options  `json:"android,omitempty"`
	UseWebSocket bool              `json:"useWebSocket"`
}

// CommandLine returns the binary followed by its arguments.
func (c *SessionConfig) CommandLine() []string {
	if c.Binary == "" {
		return append([]string(nil), c.Args...)
	}
	return append([]string{c.Binary}, c.Args...)
}

// Release removes a profile extracted for this session.
func (c *SessionConfig) Release() error {
	return c.Profile.Profile.Remove()
}

// stage is a step of Build.
type stage int

const (
	stageStart stage = iota
	stageOptionsParsed
	stageArgumentsResolved
	stageTransportResolved
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageOptionsParsed:
		return "options_parsed"
	case stageArgumentsResolved:
		return "arguments_resolved"
	case stageTransportResolved:
		return "transport_resolved"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Builder turns matched capabilities into a SessionConfig.
type Builder struct {
	profiles  mozprofile.Store
	extractor mozprofile.Extractor
	logger    *zap.SugaredLogger
}

// NewBuilder creates a builder using profiles for profile directories and
// extractor for embedded profile archives.
func NewBuilder(profiles mozprofile.Store, extractor mozprofile.Extractor) *Builder {
	return &Builder{
		profiles:  profiles,
		extractor: extractor,
		logger:    logger.ComponentLogger("capabilities"),
	}
}

// build carries the partial result through the stages.
type build struct {
	stage    stage
	cfg      SessionConfig
	settings TransportSettings
	log      *zap.SugaredLogger
}

// Build resolves the launch configuration for binary and caps, removing
// moz:firefoxOptions and moz:debuggerAddress from caps. Either a complete
// SessionConfig or the first error is returned; a profile extracted before
// the error is removed again.
func (b *Builder) Build(binary string, settings TransportSettings, caps *Map) (*SessionConfig, error) {
	start := time.Now()
	st := &build{
		stage:    stageStart,
		cfg:      SessionConfig{Binary: binary},
		settings: settings,
		log:      logger.ChildLogger(b.logger, logger.FieldRequestID, uuid.NewString()),
	}

	if err := b.run(st, caps); err != nil {
		if rmErr := st.cfg.Release(); rmErr != nil {
			st.log.Warnw("Failed to remove profile", logger.FieldError, rmErr)
		}
		st.log.Debugw("Session configuration rejected",
			logger.FieldStage, st.stage.String(),
			logger.FieldStatus, errors.Status(err),
			logger.FieldError, err.Error(),
		)
		return nil, err
	}

	cfg := st.cfg
	st.log.Infow("Resolved session configuration",
		logger.FieldProfile, cfg.Profile.Kind.String(),
		logger.FieldCommandLine, shellquote.Join(cfg.CommandLine()...),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return &cfg, nil
}

func (b *Builder) run(st *build, caps *Map) error {
	steps := []func(*build, *Map) error{
		b.parseOptions,
		b.resolveArguments,
		b.resolveTransport,
	}
	for _, step := range steps {
		if err := step(st, caps); err != nil {
			return err
		}
		st.stage++
		st.log.Debugw("Build stage complete", logger.FieldStage, st.stage.String())
	}
	st.stage = stageDone
	return nil
}

// parseOptions reads moz:firefoxOptions. The package/binary exclusion is
// checked before any field is interpreted.
func (b *Builder) parseOptions(st *build, caps *Map) error {
	raw, ok := caps.Delete(KeyFirefoxOptions)
	if !ok {
		return nil
	}
	options, ok := raw.(*Map)
	if !ok {
		return errors.NewInvalidArgumentf("'%s' capability is not an object", KeyFirefoxOptions)
	}

	_, hasPackage := options.Get(android.KeyPackage)
	_, hasBinary := options.Get(optBinary)
	if hasPackage && hasBinary {
		return errors.NewInvalidArgument("androidPackage and binary are mutual exclusive")
	}

	var err error
	if st.cfg.Android, err = android.Resolve(st.settings.AndroidStorage, options); err != nil {
		return err
	}
	if st.cfg.Android != nil {
		st.log.Debugw("Android session", logger.FieldPackage, st.cfg.Android.Package)
	}
	if st.cfg.Args, err = loadArgs(options); err != nil {
		return err
	}
	if st.cfg.Env, err = loadEnv(options); err != nil {
		return err
	}
	if st.cfg.Log, err = loadLog(options); err != nil {
		return err
	}
	if st.cfg.Prefs, err = loadPrefs(options); err != nil {
		return err
	}

	profile, err := b.loadProfile(st.settings.ProfileRoot, options, st.log)
	if err != nil {
		return err
	}
	if profile != nil {
		st.cfg.Profile = mozprofile.EmbeddedSource(profile)
	}
	return nil
}

// resolveArguments applies the blocked-flag policy to the client's
// arguments, then lets --profile and -P select the profile.
func (b *Builder) resolveArguments(st *build, _ *Map) error {
	if st.cfg.Args == nil {
		return nil
	}

	tokens, err := mozargs.ParseAndCheck(st.cfg.Args)
	if err != nil {
		return err
	}
	st.log.Debugw("Parsed arguments",
		logger.FieldArgs, st.cfg.Args,
		logger.FieldCount, len(tokens),
		logger.FieldPassthrough, passthroughFlags(tokens),
	)

	st.cfg.Profile, err = b.resolveArgProfile(st.cfg.Profile, tokens, st.log)
	return err
}

// resolveTransport enables the WebSocket transport when webSocketUrl or
// moz:debuggerAddress is true and appends the remote agent arguments.
func (b *Builder) resolveTransport(st *build, caps *Map) error {
	webSocketURL, _ := caps.Get(KeyWebSocketURL)
	debuggerAddress, _ := caps.Delete(KeyDebuggerAddress)

	if !isTrue(webSocketURL) && !isTrue(debuggerAddress) {
		return nil
	}

	st.cfg.UseWebSocket = true
	st.cfg.Args = append(st.cfg.Args, RemoteArgs(st.settings)...)
	st.log.Debugw("WebSocket transport requested", logger.FieldPort, st.settings.WebSocketPort)
	return nil
}

// RemoteArgs are the arguments enabling the remote agent for settings.
func RemoteArgs(settings TransportSettings) []string {
	args := []string{
		mozargs.RemoteDebuggingPort.String(),
		strconv.Itoa(int(settings.WebSocketPort)),
	}
	if len(settings.AllowHosts) > 0 {
		args = append(args, mozargs.RemoteAllowHosts.String(), strings.Join(settings.AllowHosts, ","))
	}
	if len(settings.AllowOrigins) > 0 {
		args = append(args, mozargs.RemoteAllowOrigins.String(), strings.Join(settings.AllowOrigins, ","))
	}
	return args
}

// passthroughFlags lists the flags handed to Firefox uninterpreted.
func passthroughFlags(tokens []mozargs.Token) []string {
	var flags []string
	for _, tok := range tokens {
		if tok.IsFlag() && !tok.Arg.Known() {
			flags = append(flags, tok.Raw[0])
		}
	}
	return flags
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
