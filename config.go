package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ragudos/skribbl/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	drawTimeLimit  time.Duration
	maxRounds      int
	maxUsers       int
	pickWordLimit  time.Duration
	playerTimeout  time.Duration
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	// baseURL *url.URL
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxUsers < 2 {
		return errors.New("--max-users must be at least 2")
	}
	if c.maxRounds < 1 {
		return errors.New("--max-rounds must be at least 1")
	}
	if c.drawTimeLimit < time.Second || c.drawTimeLimit > 255*time.Second {
		return errors.New("--draw-time-limit must be between 1s and 255s")
	}
	if c.pickWordLimit < time.Second || c.pickWordLimit > 255*time.Second {
		return errors.New("--pick-word-time-limit must be between 1s and 255s")
	}
	return nil
}

func (c *Config) limits() session.Limits {
	return session.Limits{
		PickWordTimeLimit: uint8(c.pickWordLimit.Truncate(time.Second).Seconds()),
		DrawTimeLimit:     uint8(c.drawTimeLimit.Truncate(time.Second).Seconds()),
		MaxUsers:          c.maxUsers,
		MaxRounds:         c.maxRounds,
	}
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SKRIBBL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "skribbl",
		Short:         "A realtime multiplayer drawing-and-guessing party game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: SKRIBBL_BIND)")
	fs.DurationVar(&cfg.drawTimeLimit, "draw-time-limit", 5*time.Second, "time allotted to the drawer each turn (env: SKRIBBL_DRAW_TIME_LIMIT)")
	fs.IntVar(&cfg.maxRounds, "max-rounds", 4, "number of rounds per game (env: SKRIBBL_MAX_ROUNDS)")
	fs.IntVar(&cfg.maxUsers, "max-users", 8, "maximum players per room (env: SKRIBBL_MAX_USERS)")
	fs.DurationVar(&cfg.pickWordLimit, "pick-word-time-limit", 5*time.Second, "time allotted to the drawer to pick a word (env: SKRIBBL_PICK_WORD_TIME_LIMIT)")
	fs.DurationVar(&cfg.playerTimeout, "player-timeout", 10*time.Minute, "time before idle players are kicked (env: SKRIBBL_PLAYER_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SKRIBBL_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: SKRIBBL_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: SKRIBBL_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before an idle waiting room with no players left in it is removed (env: SKRIBBL_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: SKRIBBL_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: SKRIBBL_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SKRIBBL_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SKRIBBL_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("skribbl v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
