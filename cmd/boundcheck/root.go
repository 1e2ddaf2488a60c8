package main

import (
	"strings"
	"time"

	"github.com/gemsim/boundcheck/ros"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set at build time.
var (
	version = "dev"
	commit  = "none"
)

// newNode is replaced in tests.
var newNode = ros.NewNode

// config is the resolved configuration of one check.
type config struct {
	Config         string        `mapstructure:"config"`
	Node           string        `mapstructure:"node"`
	Topic          string        `mapstructure:"topic"`
	Duration       time.Duration `mapstructure:"duration"`
	Bound          float64       `mapstructure:"bound"`
	Service        string        `mapstructure:"service"`
	Model          string        `mapstructure:"model"`
	ServiceTimeout time.Duration `mapstructure:"service-timeout"`
	PollInterval   time.Duration `mapstructure:"poll-interval"`
	MetricsAddr    string        `mapstructure:"metrics-addr"`
	LogLevel       string        `mapstructure:"log-level"`
	NoColor        bool          `mapstructure:"no-color"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "boundcheck [flags] [ROS args...]",
		Short: "Check that a Float32 topic stays within a bound.",
		Long: `boundcheck subscribes to a std_msgs/Float32 topic, samples it for a fixed
window and fails unless at least one sample arrived and every sample's
magnitude is within the bound.

Positional arguments are passed to the ROS node, e.g. __master:=http://host:11311
or /gem/ct_error:=/other/topic.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default is ./.boundcheck.yaml or $HOME/.boundcheck.yaml)")
	flags.String("node", "/boundcheck", "ROS node name")
	flags.String("topic", "/gem/ct_error", "std_msgs/Float32 topic to sample")
	flags.Duration("duration", 10*time.Second, "length of the observation window")
	flags.Float64("bound", 1.0, "maximum allowed magnitude")
	flags.String("service", "/gazebo/get_model_state", "service that must be available before sampling; empty to skip")
	flags.String("model", "gem", "model queried through the service; empty to only wait for it")
	flags.Duration("service-timeout", 0, "how long to wait for the service; 0 waits until interrupted")
	flags.Duration("poll-interval", 100*time.Millisecond, "sleep step while the window is open")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address while checking")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	_ = v.BindPFlags(flags)

	v.SetEnvPrefix("BOUNDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig merges flags, environment and the optional config file.
func loadConfig(v *viper.Viper) (*config, error) {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".boundcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic must not be empty")
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of boundcheck.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("boundcheck %s (%s)\n", version, commit)
		},
	}
}
