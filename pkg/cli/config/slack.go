package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration of high risk notifications
type Slack struct {
	botToken  string
	channel   string
	appURL    string
	threshold int
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for risk notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("THEMIS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives high risk notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("THEMIS_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "app-url",
			Usage:       "Base URL of the web frontend, used for links in notifications",
			Category:    "Slack",
			Destination: &x.appURL,
			Sources:     cli.EnvVars("THEMIS_APP_URL"),
		},
		&cli.IntFlag{
			Name:        "notify-threshold",
			Usage:       "Risk level (likelihood x impact) from which a notification is sent",
			Category:    "Slack",
			Value:       15,
			Destination: &x.threshold,
			Sources:     cli.EnvVars("THEMIS_NOTIFY_THRESHOLD"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
		slog.Int("threshold", x.threshold),
	)
}

// Threshold returns the notification threshold level
func (x *Slack) Threshold() int {
	return x.threshold
}

// IsConfigured reports whether both token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// Configure returns the notifier, or nil when notifications are disabled
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.threshold < 1 || x.threshold > 25 {
		return nil, goerr.New("notify-threshold must be between 1 and 25", goerr.V("threshold", x.threshold))
	}

	notifier, err := slack.New(x.botToken, x.channel, slack.WithAppURL(x.appURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack notifier")
	}
	return notifier, nil
}
