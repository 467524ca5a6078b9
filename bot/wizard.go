package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/roomvoice/feedback_backend/apiclient"
	"github.com/roomvoice/feedback_backend/utils"
)

const retryLaterText = "The backend is unavailable right now. Please try again later."

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID,
		"👋 Hi! I manage rooms and visitor feedback.\n\n"+
			"📌 Commands:\n"+
			"/create — add an address or a room\n"+
			"/rooms — list rooms by address\n"+
			"/qr <token> — feedback link and QR code for a token\n"+
			"/getgroupid — show this group's id\n"+
			"/cancel — abort the current dialogue\n"+
			"/help — full instructions")
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID,
		"How it works:\n\n"+
			"1. /create → Address to register a building address.\n"+
			"2. /create → Room to add a room under an existing address. "+
			"You'll pick the address, name the room and give the Telegram "+
			"group id that should receive its feedback (run /getgroupid "+
			"inside that group to find it).\n"+
			"3. The room gets a QR code; visitors scan it to leave feedback, "+
			"which lands in the bound group.\n"+
			"4. /rooms lists rooms and tokens per address.\n"+
			"5. /qr <token> re-creates the link and QR image for a token.\n\n"+
			"/cancel aborts any dialogue at any point.")
}

func (b *Bot) handleCancel(msg *tgbotapi.Message) {
	b.sessions.Reset(msg.From.ID)
	b.replyRemoveKeyboard(msg.Chat.ID, "Cancelled.")
}

func (b *Bot) handleGetGroupID(msg *tgbotapi.Message) {
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		b.reply(msg.Chat.ID, "This command only works inside a group chat.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("This group's id: %d", msg.Chat.ID))
}

func (b *Bot) handleCreate(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, msg) {
		return
	}
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Address")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Room")),
	)
	keyboard.ResizeKeyboard = true
	b.sessions.Set(msg.From.ID, Session{State: StateChoosingCreateKind})
	b.replyWithKeyboard(msg.Chat.ID, "What do you want to create?", keyboard)
}

func (b *Bot) stateChoosingCreateKind(ctx context.Context, msg *tgbotapi.Message, session Session) {
	switch strings.ToLower(strings.TrimSpace(msg.Text)) {
	case "address":
		session.State = StateAddingAddress
		b.sessions.Set(msg.From.ID, session)
		b.replyRemoveKeyboard(msg.Chat.ID, "Enter the new address:")
	case "room":
		addresses, err := b.backend.Locations(ctx)
		if err != nil {
			logrus.Warnf("Listing locations failed: %v", err)
			b.reply(msg.Chat.ID, retryLaterText)
			return
		}
		if len(addresses) == 0 {
			b.sessions.Reset(msg.From.ID)
			b.replyRemoveKeyboard(msg.Chat.ID, "There are no addresses yet. Add an address first.")
			return
		}
		session.State = StateChoosingLocation
		b.sessions.Set(msg.From.ID, session)
		b.replyWithKeyboard(msg.Chat.ID, "Choose an address:", addressKeyboard(addresses))
	default:
		b.reply(msg.Chat.ID, "Please choose: Address or Room")
	}
}

func (b *Bot) stateAddingAddress(ctx context.Context, msg *tgbotapi.Message) {
	address := strings.TrimSpace(msg.Text)
	if address == "" {
		b.reply(msg.Chat.ID, "The address must not be empty. Enter the new address:")
		return
	}

	err := b.backend.AddLocation(ctx, address)
	switch {
	case err == nil:
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "✅ Address added!")
	case errors.Is(err, apiclient.ErrConflict):
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "That address already exists.")
	case errors.Is(err, apiclient.ErrUnavailable):
		b.reply(msg.Chat.ID, retryLaterText)
	default:
		logrus.Warnf("Adding address failed: %v", err)
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "Could not add the address.")
	}
}

func (b *Bot) stateChoosingLocation(msg *tgbotapi.Message, session Session) {
	address := strings.TrimSpace(msg.Text)
	if address == "" {
		b.reply(msg.Chat.ID, "Please choose an address from the keyboard.")
		return
	}
	session.Address = address
	session.State = StateEnteringRoomName
	b.sessions.Set(msg.From.ID, session)
	b.replyRemoveKeyboard(msg.Chat.ID, "Enter the room name:")
}

func (b *Bot) stateEnteringRoomName(msg *tgbotapi.Message, session Session) {
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		b.reply(msg.Chat.ID, "The room name must not be empty. Enter the room name:")
		return
	}
	session.RoomName = name
	session.State = StateEnteringGroupID
	b.sessions.Set(msg.From.ID, session)
	b.reply(msg.Chat.ID, "Enter the Telegram group id that should receive feedback:")
}

func (b *Bot) stateEnteringGroupID(ctx context.Context, msg *tgbotapi.Message, session Session) {
	groupID, err := NormalizeGroupID(msg.Text)
	if err != nil {
		b.reply(msg.Chat.ID, "That doesn't look like a group id. Enter a number, e.g. -1001234567890:")
		return
	}

	created, err := b.backend.CreateRoom(ctx, session.Address, session.RoomName, groupID)
	switch {
	case err == nil:
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, fmt.Sprintf(
			"✅ Room created!\n🏢 Address: %s\n📌 Name: %s\n🎫 Token: %s\n🔗 Link: %s",
			session.Address, session.RoomName, created.QRToken, created.QRLink))
	case errors.Is(err, apiclient.ErrUnavailable):
		b.reply(msg.Chat.ID, retryLaterText)
	case errors.Is(err, apiclient.ErrNotFound):
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "That address no longer exists. Start over with /create.")
	default:
		logrus.Warnf("Creating room failed: %v", err)
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "Could not create the room.")
	}
}

func (b *Bot) handleRooms(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, msg) {
		return
	}

	addresses, err := b.backend.Locations(ctx)
	if err != nil {
		logrus.Warnf("Listing locations failed: %v", err)
		b.reply(msg.Chat.ID, retryLaterText)
		return
	}
	if len(addresses) == 0 {
		b.reply(msg.Chat.ID, "There are no addresses in the system.")
		return
	}

	b.sessions.Set(msg.From.ID, Session{State: StateChoosingQueryLocation})
	b.replyWithKeyboard(msg.Chat.ID, "Choose an address:", addressKeyboard(addresses))
}

func (b *Bot) stateChoosingQueryLocation(ctx context.Context, msg *tgbotapi.Message) {
	address := strings.TrimSpace(msg.Text)

	rooms, err := b.backend.RoomsByLocation(ctx, address)
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "Unknown address.")
		return
	case errors.Is(err, apiclient.ErrUnavailable):
		b.reply(msg.Chat.ID, retryLaterText)
		return
	case err != nil:
		logrus.Warnf("Listing rooms failed: %v", err)
		b.sessions.Reset(msg.From.ID)
		b.replyRemoveKeyboard(msg.Chat.ID, "Could not list rooms.")
		return
	}

	b.sessions.Reset(msg.From.ID)
	if len(rooms) == 0 {
		b.replyRemoveKeyboard(msg.Chat.ID, "There are no rooms at this address.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏢 %s\n", address)
	for _, room := range rooms {
		fmt.Fprintf(&sb, "• %s — token: %s\n", room.Name, room.QRToken)
	}
	b.replyRemoveKeyboard(msg.Chat.ID, sb.String())
}

func (b *Bot) handleQR(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, msg) {
		return
	}

	token := strings.TrimSpace(msg.CommandArguments())
	if token == "" || strings.ContainsAny(token, " \t") {
		b.reply(msg.Chat.ID, "Usage: /qr <token>")
		return
	}

	info, err := b.backend.RoomInfo(ctx, token)
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		b.reply(msg.Chat.ID, "Token not found.")
		return
	case err != nil:
		logrus.Warnf("Room lookup failed: %v", err)
		b.reply(msg.Chat.ID, retryLaterText)
		return
	}

	link := utils.FeedbackLink(b.formURL, token)
	png, err := utils.QRPNG(link)
	if err != nil {
		logrus.Errorf("QR encoding failed for token %s: %v", token, err)
		b.reply(msg.Chat.ID, "Could not generate the QR code.")
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "qr.png", Bytes: png})
	photo.Caption = fmt.Sprintf("🏠 %s\n📍 %s\n🔗 %s", info.Name, info.Address, link)
	b.sendMessage(photo)
}

// NormalizeGroupID parses a notification target id. Group-style targets
// are negative by Telegram convention, so a missing leading minus is
// prepended rather than rejected.
func NormalizeGroupID(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty group id")
	}
	if !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("group id must be numeric: %w", err)
	}
	return id, nil
}
