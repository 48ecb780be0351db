// Package bot captures memos from Telegram chat messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"memoapi/internal/memo"
	"memoapi/internal/model"
	"memoapi/internal/service"
)

const (
	defaultListCount = 5
	maxListCount     = 50
	previewRunes     = 200
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Options controls how memos are rendered in replies.
type Options struct {
	DateFormat  string
	DefaultSort model.SortKey
	Location    *time.Location
}

type Bot struct {
	api    API
	memos  service.MemoService
	tags   service.TagService
	opts   Options
	logger *zap.Logger
}

// Connect authorizes token against the Telegram API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return api, nil
}

func New(api API, memos service.MemoService, tags service.TagService, opts Options, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:    api,
		memos:  memos,
		tags:   tags,
		opts:   opts,
		logger: logger.With(zap.String("component", "bot")),
	}
}

// Run long-polls for updates until ctx is done. Messages are handled one at a
// time, in arrival order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("bot polling started", zap.String("event", "bot_started"))
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot polling stopped", zap.String("event", "bot_stopped"))
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram update channel closed")
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	content = strings.TrimSpace(content)
	if content == "" {
		b.sendMessage(message.Chat.ID, "Send me some text to save it as a memo. Use /help to see all commands.")
		return
	}

	created, err := b.memos.Create(ctx, content)
	if err != nil {
		b.logger.Error("Failed to save memo",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't save your memo. Please try again.")
		return
	}

	text := "Saved memo " + created.ID
	if len(created.Tags) > 0 {
		text += "\nTags: " + formatTags(created.Tags)
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	b.send(msg)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "list":
		b.handleList(ctx, message)
	case "search":
		b.handleSearch(ctx, message)
	case "tags":
		b.handleTags(ctx, message)
	case "delete":
		b.handleDelete(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to MemoAPI!
Send me any text and I'll save it as a memo. Words like #idea become tags.

Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/list [n] - Show your latest memos
/search <text or #tags> - Find memos
/tags - Show your tags
/delete <id> - Delete a memo

Any other text is saved as a new memo.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message) {
	n := defaultListCount
	if arg := strings.TrimSpace(message.CommandArguments()); arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			b.sendMessage(message.Chat.ID, "Usage: /list [n]")
			return
		}
		n = min(v, maxListCount)
	}

	memos, err := b.memos.ListAll(ctx, n, b.opts.DefaultSort)
	if err != nil {
		b.logger.Error("Failed to list memos",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your memos.")
		return
	}
	if len(memos) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any memos yet.")
		return
	}
	b.sendMessage(message.Chat.ID, b.formatMemos(memos))
}

// handleSearch treats #words as tags and the remaining words as a text match.
func (b *Bot) handleSearch(ctx context.Context, message *tgbotapi.Message) {
	var (
		q     model.SearchQuery
		words []string
	)
	for _, f := range strings.Fields(message.CommandArguments()) {
		if strings.HasPrefix(f, "#") && memo.ValidTagName(memo.NormalizeTag(f)) {
			q.Tags = append(q.Tags, memo.NormalizeTag(f))
			continue
		}
		words = append(words, f)
	}
	q.Text = strings.Join(words, " ")
	if q.Text == "" && len(q.Tags) == 0 {
		b.sendMessage(message.Chat.ID, "Usage: /search <text or #tags>")
		return
	}

	memos, err := b.memos.Search(ctx, q)
	if err != nil {
		b.logger.Error("Failed to search memos",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, the search failed. Please try again later.")
		return
	}
	if len(memos) == 0 {
		b.sendMessage(message.Chat.ID, "No memos found.")
		return
	}
	b.sendMessage(message.Chat.ID, b.formatMemos(memos[:min(len(memos), maxListCount)]))
}

func (b *Bot) handleTags(ctx context.Context, message *tgbotapi.Message) {
	tags, err := b.tags.AllTags(ctx)
	if err != nil {
		b.logger.Error("Failed to get tags",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, failed to retrieve your tags. Please try again later.")
		return
	}
	if len(tags) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any tags yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your tags:\n")
	for _, t := range tags {
		fmt.Fprintf(&sb, "#%s (%d)\n", t.Name, t.Count)
	}
	b.sendMessage(message.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) handleDelete(ctx context.Context, message *tgbotapi.Message) {
	id := strings.TrimSpace(message.CommandArguments())
	if _, ok := memo.ParseID(id); !ok {
		b.sendMessage(message.Chat.ID, "Usage: /delete <id>")
		return
	}

	deleted, err := b.memos.Delete(ctx, id)
	if err != nil {
		b.logger.Error("Failed to delete memo",
			zap.Error(err),
			zap.String("id", id),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't delete that memo.")
		return
	}
	if !deleted {
		b.sendMessage(message.Chat.ID, "Memo "+id+" not found.")
		return
	}
	b.sendMessage(message.Chat.ID, "Deleted memo "+id+".")
}

func (b *Bot) formatMemos(memos []model.Memo) string {
	var sb strings.Builder
	for i, m := range memos {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s · %s\n%s", m.ID, memo.FormatDate(m.CreatedAt, b.opts.DateFormat, b.opts.Location), preview(m.Content))
	}
	return sb.String()
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	return string([]rune(content)[:previewRunes]) + "…"
}

func formatTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, "⚠️ "+text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID))
	}
}
