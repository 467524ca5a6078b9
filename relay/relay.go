package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomvoice/feedback_backend/models"
	"github.com/roomvoice/feedback_backend/notify"
	"github.com/roomvoice/feedback_backend/stores"
)

const notifyTimeout = 5 * time.Second

// Relay records visitor feedback against a room and forwards a formatted
// notification to the room's bound Telegram group.
type Relay struct {
	rooms    *stores.RoomStore
	messages *stores.MessageStore
	notifier notify.Notifier
}

func New(rooms *stores.RoomStore, messages *stores.MessageStore, notifier notify.Notifier) *Relay {
	return &Relay{rooms: rooms, messages: messages, notifier: notifier}
}

// Submit persists the feedback, then notifies best-effort. The persisted
// row is the durable side effect; a delivery failure is logged and
// swallowed, never surfaced to the visitor and never rolled back.
func (r *Relay) Submit(ctx context.Context, token, text string) error {
	room, err := r.rooms.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	if _, err := r.messages.Create(ctx, room.ID, text); err != nil {
		return err
	}

	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := r.notifier.Notify(notifyCtx, room.TGGroupID, FormatNotification(room, text)); err != nil {
		logrus.WithFields(logrus.Fields{
			"room_id":  room.ID,
			"group_id": room.TGGroupID,
		}).Warnf("Notification delivery failed: %v", err)
	}

	return nil
}

// FormatNotification builds the group message. Line order and field
// content are part of the compatibility contract; the marker glyphs are
// cosmetic.
func FormatNotification(room *models.Room, text string) string {
	return fmt.Sprintf("🚨 New feedback!\n📍 Address: %s\n🏠 Room: %s\n✉️ Message: %s",
		room.Location.Address, room.Name, text)
}
