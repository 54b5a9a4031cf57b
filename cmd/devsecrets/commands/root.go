package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"devsecrets/internal/app"
)

// options holds the persistent flags.
type options struct {
	configPath string

	profile     string
	transport   string
	queue       string
	sqlitePath  string
	relayURL    string
	pubsubProj  string
	pubsubTopic string
	pubsubSub   string
	logLevel    string
	visibility  string

	// Set by receive.
	pollInterval time.Duration
	metricsAddr  string
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

// newRootCmd leaves SilenceErrors unset: cobra prints the error and main
// only sets the exit code.
func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:          "devsecrets",
		Short:        "Send encrypted, sequenced messages over a queue",
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML config file")
	f.StringVar(&o.profile, "profile", "", "none | static-key | derived-key | derived-key-agreement")
	f.StringVar(&o.transport, "transport", "", "memory | sqlite | relay | pubsub")
	f.StringVar(&o.queue, "queue", "", "queue name")
	f.StringVar(&o.sqlitePath, "sqlite-path", "", "SQLite queue file")
	f.StringVar(&o.relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	f.StringVar(&o.pubsubProj, "pubsub-project", "", "Google Cloud project")
	f.StringVar(&o.pubsubTopic, "pubsub-topic", "", "Pub/Sub topic")
	f.StringVar(&o.pubsubSub, "pubsub-subscription", "", "Pub/Sub subscription (receive)")
	f.StringVar(&o.logLevel, "log-level", "", "debug | info | warn | error")
	f.StringVar(&o.visibility, "visibility-timeout", "", "how long a delivery stays leased (e.g. 30s)")

	root.AddCommand(keygenCmd(), sendCmd(o), receiveCmd(o))
	return root
}

// open loads the config, applies flags that were set and wires the app.
func (o *options) open(cmd *cobra.Command) (*app.Wire, error) {
	cfg, err := app.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("profile", &cfg.Profile, o.profile)
	set("transport", &cfg.Transport.Kind, o.transport)
	set("queue", &cfg.Transport.Queue, o.queue)
	set("sqlite-path", &cfg.Transport.SQLitePath, o.sqlitePath)
	set("relay", &cfg.Transport.RelayURL, o.relayURL)
	set("pubsub-project", &cfg.Transport.PubSubProject, o.pubsubProj)
	set("pubsub-topic", &cfg.Transport.PubSubTopic, o.pubsubTopic)
	set("pubsub-subscription", &cfg.Transport.PubSubSubscription, o.pubsubSub)
	set("log-level", &cfg.LogLevel, o.logLevel)
	set("metrics-addr", &cfg.MetricsAddr, o.metricsAddr)
	if flags.Changed("poll-interval") {
		cfg.PollInterval = o.pollInterval
	}
	if flags.Changed("visibility-timeout") {
		d, err := time.ParseDuration(o.visibility)
		if err != nil {
			return nil, fmt.Errorf("--visibility-timeout: %w", err)
		}
		cfg.VisibilityTimeout = d
	}
	return app.NewWire(cmd.Context(), cfg, cmd.ErrOrStderr())
}
