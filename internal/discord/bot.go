package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/chris/aide/internal/logger"
)

// Runner answers one inbound message. *agent.Agent implements it.
type Runner interface {
	Run(ctx context.Context, userID, message string) (string, error)
}

type Bot struct {
	session *discordgo.Session
	runner  Runner
}

func NewBot(token string, runner Runner) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, runner: runner}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	logger.Info("discord: connected", "user", s.State.User.Username)
	return bot, nil
}

// Run blocks until ctx is cancelled, then closes the connection.
func (b *Bot) Run(ctx context.Context) error {
	<-ctx.Done()
	return b.Close()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// SendDM delivers text to a user's direct-message channel. It satisfies
// reminders.Notifier.
func (b *Bot) SendDM(ctx context.Context, userID, text string) error {
	ch, err := b.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opening DM with %s: %w", userID, err)
	}
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("sending DM to %s: %w", userID, err)
		}
	}
	return nil
}
