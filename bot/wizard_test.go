package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomvoice/feedback_backend/apiclient"
)

const testUserID = int64(42)

type createdRoom struct {
	address string
	name    string
	groupID int64
}

type fakeBackend struct {
	authorized bool
	authErr    error

	locations    []string
	locationsErr error

	addLocationErr error
	addedAddresses []string

	created   []createdRoom
	createErr error

	rooms    []apiclient.RoomSummary
	roomsErr error

	roomInfo    *apiclient.RoomInfo
	roomInfoErr error
}

func (f *fakeBackend) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	return f.authorized, f.authErr
}

func (f *fakeBackend) Locations(ctx context.Context) ([]string, error) {
	return f.locations, f.locationsErr
}

func (f *fakeBackend) AddLocation(ctx context.Context, address string) error {
	if f.addLocationErr != nil {
		return f.addLocationErr
	}
	f.addedAddresses = append(f.addedAddresses, address)
	return nil
}

func (f *fakeBackend) CreateRoom(ctx context.Context, address, name string, tgGroupID int64) (*apiclient.RoomCreated, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, createdRoom{address: address, name: name, groupID: tgGroupID})
	return &apiclient.RoomCreated{QRToken: "a1b2c3d4", QRLink: "https://forms.example.com/room/a1b2c3d4"}, nil
}

func (f *fakeBackend) RoomsByLocation(ctx context.Context, address string) ([]apiclient.RoomSummary, error) {
	return f.rooms, f.roomsErr
}

func (f *fakeBackend) RoomInfo(ctx context.Context, token string) (*apiclient.RoomInfo, error) {
	return f.roomInfo, f.roomInfoErr
}

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok, "last sent item is not a text message")
	return msg.Text
}

func newTestBot(backend *fakeBackend) (*Bot, *fakeSender, SessionStore) {
	sender := &fakeSender{}
	sessions := NewMemorySessionStore()
	return New(sender, backend, sessions, "https://forms.example.com"), sender, sessions
}

func commandUpdate(text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i != -1 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: testUserID},
		Chat:     &tgbotapi.Chat{ID: testUserID, Type: "private"},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: testUserID},
		Chat: &tgbotapi.Chat{ID: testUserID, Type: "private"},
		Text: text,
	}}
}

func TestNormalizeGroupID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "123", want: -123},
		{input: "-123", want: -123},
		{input: " -1001234567890 ", want: -1001234567890},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "--5", wantErr: true},
		{input: "12a3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeGroupID(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	b, _, sessions := newTestBot(&fakeBackend{authorized: true})

	sessions.Set(testUserID, Session{State: StateEnteringRoomName, Address: "Main St"})

	b.HandleUpdate(commandUpdate("/cancel"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)

	// A second cancel from Idle is a no-op.
	b.HandleUpdate(commandUpdate("/cancel"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
	assert.Empty(t, sessions.Get(testUserID).Address)
}

func TestCreateDenied(t *testing.T) {
	b, sender, sessions := newTestBot(&fakeBackend{authorized: false})

	b.HandleUpdate(commandUpdate("/create"))
	assert.Contains(t, sender.lastText(t), "don't have access")
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
}

func TestCreateAuthUnavailableAsksToRetry(t *testing.T) {
	b, sender, sessions := newTestBot(&fakeBackend{authErr: apiclient.ErrUnavailable})

	b.HandleUpdate(commandUpdate("/create"))
	assert.Contains(t, sender.lastText(t), "try again later")
	// Unknown must not change state or count as a denial.
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
}

func TestCreateRoomWizardFlow(t *testing.T) {
	backend := &fakeBackend{authorized: true, locations: []string{"Main St"}}
	b, sender, sessions := newTestBot(backend)

	b.HandleUpdate(commandUpdate("/create"))
	assert.Equal(t, StateChoosingCreateKind, sessions.Get(testUserID).State)

	b.HandleUpdate(textUpdate("Room"))
	assert.Equal(t, StateChoosingLocation, sessions.Get(testUserID).State)

	b.HandleUpdate(textUpdate("Main St"))
	assert.Equal(t, StateEnteringRoomName, sessions.Get(testUserID).State)

	b.HandleUpdate(textUpdate("Lobby"))
	assert.Equal(t, StateEnteringGroupID, sessions.Get(testUserID).State)

	b.HandleUpdate(textUpdate("555"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)

	require.Len(t, backend.created, 1)
	assert.Equal(t, createdRoom{address: "Main St", name: "Lobby", groupID: -555}, backend.created[0])
	assert.Contains(t, sender.lastText(t), "a1b2c3d4")
}

func TestInvalidGroupIDKeepsState(t *testing.T) {
	backend := &fakeBackend{authorized: true, locations: []string{"Main St"}}
	b, sender, sessions := newTestBot(backend)

	sessions.Set(testUserID, Session{State: StateEnteringGroupID, Address: "Main St", RoomName: "Lobby"})

	b.HandleUpdate(textUpdate("abc"))
	assert.Equal(t, StateEnteringGroupID, sessions.Get(testUserID).State)
	assert.Contains(t, sender.lastText(t), "group id")
	assert.Empty(t, backend.created)

	b.HandleUpdate(textUpdate("-123"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
	require.Len(t, backend.created, 1)
	assert.Equal(t, int64(-123), backend.created[0].groupID)
}

func TestCreateKindRePromptsOnInvalidChoice(t *testing.T) {
	b, sender, sessions := newTestBot(&fakeBackend{authorized: true})
	sessions.Set(testUserID, Session{State: StateChoosingCreateKind})

	b.HandleUpdate(textUpdate("banana"))
	assert.Equal(t, StateChoosingCreateKind, sessions.Get(testUserID).State)
	assert.Contains(t, sender.lastText(t), "Address or Room")
}

func TestAddAddressFlow(t *testing.T) {
	backend := &fakeBackend{authorized: true}
	b, sender, sessions := newTestBot(backend)

	b.HandleUpdate(commandUpdate("/create"))
	b.HandleUpdate(textUpdate("Address"))
	assert.Equal(t, StateAddingAddress, sessions.Get(testUserID).State)

	b.HandleUpdate(textUpdate("Main St"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
	assert.Equal(t, []string{"Main St"}, backend.addedAddresses)
	assert.Contains(t, sender.lastText(t), "added")
}

func TestAddAddressDuplicate(t *testing.T) {
	backend := &fakeBackend{authorized: true, addLocationErr: apiclient.ErrConflict}
	b, sender, sessions := newTestBot(backend)
	sessions.Set(testUserID, Session{State: StateAddingAddress})

	b.HandleUpdate(textUpdate("Main St"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
	assert.Contains(t, sender.lastText(t), "already exists")
}

func TestRoomsFlow(t *testing.T) {
	backend := &fakeBackend{
		authorized: true,
		locations:  []string{"Main St"},
		rooms:      []apiclient.RoomSummary{{Name: "Lobby", QRToken: "a1b2c3d4"}},
	}
	b, sender, sessions := newTestBot(backend)

	b.HandleUpdate(commandUpdate("/rooms"))
	assert.Equal(t, StateChoosingQueryLocation, sessions.Get(testUserID).State)

	b.HandleUpdate(textUpdate("Main St"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
	text := sender.lastText(t)
	assert.Contains(t, text, "Lobby")
	assert.Contains(t, text, "a1b2c3d4")
}

func TestRoomsNoAddresses(t *testing.T) {
	b, sender, sessions := newTestBot(&fakeBackend{authorized: true})

	b.HandleUpdate(commandUpdate("/rooms"))
	assert.Equal(t, StateIdle, sessions.Get(testUserID).State)
	assert.Contains(t, sender.lastText(t), "no addresses")
}

func TestQRCommand(t *testing.T) {
	backend := &fakeBackend{
		authorized: true,
		roomInfo:   &apiclient.RoomInfo{Address: "Main St", Name: "Lobby"},
	}
	b, sender, _ := newTestBot(backend)

	b.HandleUpdate(commandUpdate("/qr a1b2c3d4"))

	require.NotEmpty(t, sender.sent)
	photo, ok := sender.sent[len(sender.sent)-1].(tgbotapi.PhotoConfig)
	require.True(t, ok, "expected a photo reply")
	assert.Contains(t, photo.Caption, "Main St")
	assert.Contains(t, photo.Caption, "Lobby")
	assert.Contains(t, photo.Caption, "https://forms.example.com/room/a1b2c3d4")
}

func TestQRCommandUnknownToken(t *testing.T) {
	backend := &fakeBackend{authorized: true, roomInfoErr: apiclient.ErrNotFound}
	b, sender, _ := newTestBot(backend)

	b.HandleUpdate(commandUpdate("/qr deadbeef"))
	assert.Contains(t, sender.lastText(t), "not found")
}

func TestQRCommandUsage(t *testing.T) {
	b, sender, _ := newTestBot(&fakeBackend{authorized: true})

	b.HandleUpdate(commandUpdate("/qr"))
	assert.Contains(t, sender.lastText(t), "Usage")
}

func TestGetGroupID(t *testing.T) {
	b, sender, _ := newTestBot(&fakeBackend{})

	update := commandUpdate("/getgroupid")
	update.Message.Chat = &tgbotapi.Chat{ID: -100555, Type: "supergroup"}
	b.HandleUpdate(update)
	assert.Contains(t, sender.lastText(t), "-100555")
}

func TestGetGroupIDOutsideGroup(t *testing.T) {
	b, sender, _ := newTestBot(&fakeBackend{})

	b.HandleUpdate(commandUpdate("/getgroupid"))
	assert.Contains(t, sender.lastText(t), "group chat")
}

func TestUnavailableLocationsKeepsCreateKindState(t *testing.T) {
	backend := &fakeBackend{authorized: true, locationsErr: errors.New("connection refused")}
	b, sender, sessions := newTestBot(backend)
	sessions.Set(testUserID, Session{State: StateChoosingCreateKind})

	b.HandleUpdate(textUpdate("Room"))
	assert.Equal(t, StateChoosingCreateKind, sessions.Get(testUserID).State)
	assert.Contains(t, sender.lastText(t), "try again later")
}
