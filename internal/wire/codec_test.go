package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEventRoundTrip(t *testing.T) {
	events := []ClientEvent{
		{Kind: ClientStartGame},
		{Kind: ClientPickAWord, Word: "elephant"},
		{Kind: ClientPointerDown},
		{Kind: ClientPointerMove, X: 12.5, Y: -3.25},
		{Kind: ClientPointerUp},
		{Kind: ClientPointerLeave},
		{Kind: ClientChangeColor, Color: "#ff0000"},
		{Kind: ClientMessage, Message: "is it a giraffe?"},
	}

	for _, e := range events {
		data, err := EncodeClientEvent(e)
		require.NoError(t, err)

		got, err := DecodeClientEvent(data)
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestClientEventRejectsBadVersion(t *testing.T) {
	data, err := EncodeClientEvent(ClientEvent{Kind: ClientStartGame})
	require.NoError(t, err)
	data[0] = BinaryProtocolVersion + 1

	_, err = DecodeClientEvent(data)
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestClientEventRejectsUnknownTag(t *testing.T) {
	data := newFrame(0xFE)
	_, err := DecodeClientEvent(data)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestClientEventRejectsBadUTF8(t *testing.T) {
	buf := newFrame(TagClientMessage)
	buf = appendField(buf, []byte{0xFF, 0xFE})

	_, err := DecodeClientEvent(buf)
	assert.ErrorIs(t, err, ErrBadUTF8)
}

func TestServerEventRoundTrip(t *testing.T) {
	events := []ServerEvent{
		{Kind: ServerError, Message: "room is full"},
		{Kind: ServerConnectError, Message: "display name taken"},
		{Kind: ServerUserJoined, User: UserPayload{ID: "u1", DisplayName: "ren", Score: 0}},
		{Kind: ServerUserLeft, UserID: "u1"},
		{Kind: ServerStartGame},
		{Kind: ServerPickAWord, WordsToPick: [3]string{"cat", "dog", "bird"}},
		{Kind: ServerEndGame},
		{Kind: ServerResetRoom},
		{Kind: ServerNewTurn, UserID: "u2"},
		{Kind: ServerNewWord, Word: "elephant"},
		{Kind: ServerNewRound, Round: 3},
		{Kind: ServerNewHost, UserID: "u3"},
		{Kind: ServerPointerDown},
		{Kind: ServerPointerMove, X: 100.1, Y: 200.2},
		{Kind: ServerPointerUp},
		{Kind: ServerPointerLeave},
		{Kind: ServerChangeColor, Color: "#00ff00"},
		{Kind: ServerSendGameState, GameState: GameStatePayload{
			Room: RoomPayload{ID: "r1", HostID: "u1", Visibility: "public", State: "waiting", MaxUsers: 8, MaxRounds: 3},
			User: UserPayload{ID: "u1", DisplayName: "ren"},
			UsersInRoom: []UserPayload{
				{ID: "u1", DisplayName: "ren"},
				{ID: "u2", DisplayName: "kai", Score: 40},
			},
		}},
		{Kind: ServerMessage, GuesserID: "u2", GuessMessage: "is it a cat?"},
		{Kind: ServerAddScore, UserID: "u2", Score: 40},
		{Kind: ServerTick, TimeLeft: 58},
		{Kind: ServerUserGuessed, UserID: "u2"},
		{Kind: ServerSystemMessage, Message: "u2 guessed the word"},
		{Kind: ServerUserJoined, User: UserPayload{ID: "u3", DisplayName: "Søren 🎨", Score: 10}},
	}

	for _, e := range events {
		data, err := EncodeServerEvent(e)
		require.NoErrorf(t, err, "encode kind %d", e.Kind)

		got, err := DecodeServerEvent(data)
		require.NoErrorf(t, err, "decode kind %d", e.Kind)
		assert.Equal(t, e, got)
	}
}

func TestRevealWordReusesNewWordTag(t *testing.T) {
	reveal, err := EncodeServerEvent(ServerEvent{Kind: ServerNewWord, Word: "giraffe"})
	require.NoError(t, err)

	got, err := DecodeServerEvent(reveal)
	require.NoError(t, err)
	assert.Equal(t, ServerNewWord, got.Kind)
	assert.Equal(t, "giraffe", got.Word)
}

func TestServerEventEmptyAndLongFields(t *testing.T) {
	longMsg := make([]byte, 300)
	for i := range longMsg {
		longMsg[i] = 'a'
	}

	cases := []ServerEvent{
		{Kind: ServerError, Message: ""},
		{Kind: ServerSystemMessage, Message: string(longMsg)},
	}

	for _, e := range cases {
		data, err := EncodeServerEvent(e)
		require.NoError(t, err)

		got, err := DecodeServerEvent(data)
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestServerEventRejectsUnknownTag(t *testing.T) {
	data := newFrame(0xFE)
	_, err := DecodeServerEvent(data)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
