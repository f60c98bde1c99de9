package discord

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/chris/aide/internal/logger"
)

const maxMessageLen = 2000

const (
	helpText = "Hi! I'm your personal assistant. Tell me in natural language:\n" +
		"Tasks: \"Remind me to call mom tomorrow at 5pm\", \"What tasks do I have?\"\n" +
		"Habits: \"Start habit meditation\", \"I ran today\", \"What's my streak?\"\n" +
		"Money: \"Spent 50 on food\", \"Show my expenses\", \"Give me savings advice\"\n" +
		"Settings: \"My timezone is Asia/Kolkata\", \"What time is it?\""

	apologyText = "Something went wrong. Try again?"
)

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if content == "" {
		return
	}

	if content != "/start" {
		_ = s.ChannelTyping(m.ChannelID)
	}
	reply := b.respond(context.Background(), m.Author.ID, content)

	for _, chunk := range splitMessage(reply, maxMessageLen) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			logger.Warn("discord: send failed", "channel", m.ChannelID, "err", err)
			return
		}
	}
}

// respond turns one cleaned message into the reply text. Loop failures
// become a short apology; the detail goes to the log.
func (b *Bot) respond(ctx context.Context, userID, content string) string {
	if content == "/start" {
		return helpText
	}
	reply, err := b.runner.Run(ctx, userID, content)
	if err != nil {
		logger.Error("discord: agent error", "user", userID, "err", err)
		return apologyText
	}
	return reply
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

// splitMessage cuts s into chunks of at most maxLen bytes, preferring to
// break after a newline and never inside a UTF-8 sequence.
func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end >= len(s) {
			chunks = append(chunks, s)
			break
		}
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
			end = idx + 1
		} else {
			for end > 1 && !utf8.RuneStart(s[end]) {
				end--
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
