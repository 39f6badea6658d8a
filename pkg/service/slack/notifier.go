package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxSectionTextBytes is the Slack limit for a section text object
const maxSectionTextBytes = 3000

// Notifier posts risk register events to one Slack channel
type Notifier struct {
	api     *slack.Client
	channel string
	appURL  string
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*notifierConfig)

type notifierConfig struct {
	apiURL string
	appURL string
}

// WithAPIURL overrides the Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *notifierConfig) {
		c.apiURL = url
	}
}

// WithAppURL sets the base URL of the web frontend so that messages can link to the project
func WithAppURL(url string) Option {
	return func(c *notifierConfig) {
		c.appURL = strings.TrimSuffix(url, "/")
	}
}

// New creates a Notifier with the provided bot token and channel ID
func New(token, channel string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	var cfg notifierConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var apiOpts []slack.Option
	if cfg.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		api:     slack.New(token, apiOpts...),
		channel: channel,
		appURL:  cfg.appURL,
	}, nil
}

// NotifyHighRisk posts a summary of a risk entry whose level crossed the notification threshold
func (n *Notifier) NotifyHighRisk(ctx context.Context, project *model.Project, entry *model.RiskEntry) error {
	blocks := buildRiskBlocks(project, entry, n.appURL)
	text := fmt.Sprintf("[%s] %s: %s (level %d)", entry.Band(), project.Name, entry.Title, entry.Level())

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post risk notification",
			goerr.V("channel", n.channel),
			goerr.V("project_id", project.ID),
			goerr.V("risk_id", entry.ID))
	}
	return nil
}

func buildRiskBlocks(project *model.Project, entry *model.RiskEntry, appURL string) []slack.Block {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
		truncateToMaxBytes(fmt.Sprintf("%s risk: %s", strings.ToUpper(entry.Band().String()), entry.Title), 150),
		false, false))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Project*\n%s %s", project.Name, project.Version), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Level*\n%d (L%d x I%d)", entry.Level(), entry.Likelihood, entry.Impact), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Category*\n%s", entry.Category), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Status*\n%s", entry.Status.Normalize()), false, false),
	}
	blocks := []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}

	if entry.Description != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(entry.Description, maxSectionTextBytes), false, false),
			nil, nil))
	}

	if appURL != "" {
		link := fmt.Sprintf("<%s/projects/%s/risks/%s|Open in risk register>", appURL, project.ID, entry.ID)
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, link, false, false)))
	}

	return blocks
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "..."
	cut := maxBytes - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
