// Package slackbot bridges Slack to a coordinator over Socket Mode. Each
// message or app mention becomes one task run, and the answer is posted as a
// threaded reply.
package slackbot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/reagentdev/reagent"
)

// Bot listens for Slack events and answers them via a Runner.
type Bot struct {
	api    *slack.Client
	socket *socketmode.Client
	runner reagent.Runner
	log    *slog.Logger

	botUserID string
}

// New creates a Bot. botToken is the xoxb bot token, appToken the xapp
// app-level token with connections:write scope.
func New(botToken, appToken string, runner reagent.Runner, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	return &Bot{
		api:    api,
		socket: socketmode.New(api),
		runner: runner,
		log:    log,
	}
}

// Run connects to Slack and processes events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	auth, err := b.api.AuthTestContext(ctx)
	if err != nil {
		return err
	}
	b.botUserID = auth.UserID
	b.log.Info("slack bot connected", "user_id", b.botUserID)

	go b.handleEvents(ctx)
	return b.socket.RunContext(ctx)
}

func (b *Bot) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socket.Events:
			if !ok {
				return
			}
			if evt.Type != socketmode.EventTypeEventsAPI {
				continue
			}
			apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
			if !ok {
				continue
			}
			b.socket.Ack(*evt.Request)
			b.dispatch(ctx, apiEvent)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch inner := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		b.answer(ctx, inner.Channel, inner.TimeStamp, inner.Text)
	case *slackevents.MessageEvent:
		// Only direct messages; channel traffic requires a mention.
		if inner.ChannelType != "im" || inner.BotID != "" || inner.User == b.botUserID {
			return
		}
		b.answer(ctx, inner.Channel, inner.TimeStamp, inner.Text)
	}
}

func (b *Bot) answer(ctx context.Context, channel, threadTS, text string) {
	task := StripMention(text, b.botUserID)
	if task == "" {
		return
	}

	result, err := b.runner.Run(ctx, task)
	if err != nil {
		b.log.Error("slack task run failed", "channel", channel, "error", err)
		result = "Sorry, I ran into an error handling that request."
	}

	_, _, err = b.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(result, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		b.log.Error("slack reply failed", "channel", channel, "error", err)
	}
}

// StripMention removes a leading <@USERID> mention and surrounding whitespace
// from a Slack message, leaving the task text.
func StripMention(text, botUserID string) string {
	text = strings.TrimSpace(text)
	if botUserID != "" {
		text = strings.ReplaceAll(text, "<@"+botUserID+">", "")
	}
	return strings.TrimSpace(text)
}
