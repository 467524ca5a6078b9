package bot

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/roomvoice/feedback_backend/apiclient"
)

// backend is the slice of the API client the bot needs. The HTTP API is
// the canonical entry point; the bot is just one client of it.
type backend interface {
	IsAuthorized(ctx context.Context, identity string) (bool, error)
	Locations(ctx context.Context) ([]string, error)
	AddLocation(ctx context.Context, address string) error
	CreateRoom(ctx context.Context, address, name string, tgGroupID int64) (*apiclient.RoomCreated, error)
	RoomsByLocation(ctx context.Context, address string) ([]apiclient.RoomSummary, error)
	RoomInfo(ctx context.Context, token string) (*apiclient.RoomInfo, error)
}

// sender is the outbound half of the Telegram API. *tgbotapi.BotAPI
// satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      sender
	backend  backend
	sessions SessionStore
	formURL  string
}

func New(api sender, backend backend, sessions SessionStore, formURL string) *Bot {
	return &Bot{api: api, backend: backend, sessions: sessions, formURL: formURL}
}

// Run consumes the long-poll update channel until it is closed. Updates
// from one user arrive in order, which is all the wizard state needs.
func (b *Bot) Run(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		b.HandleUpdate(update)
	}
}

func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	ctx := context.Background()

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "help":
			b.handleHelp(msg)
		case "create":
			b.handleCreate(ctx, msg)
		case "rooms":
			b.handleRooms(ctx, msg)
		case "qr":
			b.handleQR(ctx, msg)
		case "cancel":
			b.handleCancel(msg)
		case "getgroupid":
			b.handleGetGroupID(msg)
		default:
			b.reply(msg.Chat.ID, "Unknown command. Use /help for the list of commands.")
		}
		return
	}

	session := b.sessions.Get(msg.From.ID)
	switch session.State {
	case StateChoosingCreateKind:
		b.stateChoosingCreateKind(ctx, msg, session)
	case StateAddingAddress:
		b.stateAddingAddress(ctx, msg)
	case StateChoosingLocation:
		b.stateChoosingLocation(msg, session)
	case StateEnteringRoomName:
		b.stateEnteringRoomName(msg, session)
	case StateEnteringGroupID:
		b.stateEnteringGroupID(ctx, msg, session)
	case StateChoosingQueryLocation:
		b.stateChoosingQueryLocation(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Use /create or /rooms to begin, or /help for instructions.")
	}
}

// requireAdmin gates a transition on the identity check. An answer that
// could not be obtained is unknown, not a denial: the user is asked to
// retry and the wizard state is left untouched.
func (b *Bot) requireAdmin(ctx context.Context, msg *tgbotapi.Message) bool {
	identity := strconv.FormatInt(msg.From.ID, 10)
	authorized, err := b.backend.IsAuthorized(ctx, identity)
	if err != nil {
		logrus.Warnf("Admin check for %s did not complete: %v", identity, err)
		b.reply(msg.Chat.ID, "Could not verify your access right now. Please try again later.")
		return false
	}
	if !authorized {
		b.reply(msg.Chat.ID, "You don't have access to this command.")
		return false
	}
	return true
}

func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyRemoveKeyboard(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(m)
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = keyboard
	b.sendMessage(m)
}

func (b *Bot) sendMessage(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logrus.Warnf("Failed to send reply: %v", err)
	}
}

// addressKeyboard builds a one-button-per-row keyboard of addresses, the
// same shape admins see on every location choice.
func addressKeyboard(addresses []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(addresses))
	for _, address := range addresses {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(address)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
