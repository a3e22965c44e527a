package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRoomWithUsers(r *Registry, roomID string, visibility Visibility, userIDs ...string) *Room {
	room := NewRoom(roomID, userIDs[0], visibility, 8, 4, time.Now())
	r.AddRoom(room)
	for _, id := range userIDs {
		r.AddUser(&User{ID: id, DisplayName: "player-" + id, RoomID: roomID})
	}
	return room
}

func TestAddUserIncrementsRoomCount(t *testing.T) {
	r := NewRegistry()
	room := addRoomWithUsers(r, "room01", Public, "user01", "user02")

	assert.Equal(t, 2, room.AmountOfUsers)
	assert.Len(t, r.UsersInRoom("room01"), 2)
}

func TestFindAvailablePublicRoom(t *testing.T) {
	r := NewRegistry()

	assert.Nil(t, r.FindAvailablePublicRoom())

	addRoomWithUsers(r, "privat", Private, "user01")
	assert.Nil(t, r.FindAvailablePublicRoom(), "private rooms are never auto-matched")

	playing := addRoomWithUsers(r, "playin", Public, "user02", "user03")
	playing.State.Kind = Playing
	assert.Nil(t, r.FindAvailablePublicRoom(), "rooms already playing are never auto-matched")

	full := NewRoom("packed", "user04", Public, 1, 4, time.Now())
	r.AddRoom(full)
	r.AddUser(&User{ID: "user04", RoomID: "packed"})
	assert.Nil(t, r.FindAvailablePublicRoom(), "full rooms are never auto-matched")

	open := addRoomWithUsers(r, "openrm", Public, "user05")
	assert.Same(t, open, r.FindAvailablePublicRoom())
}

func TestFindRoomAndUser(t *testing.T) {
	r := NewRegistry()
	room := addRoomWithUsers(r, "room01", Public, "user01")

	assert.Same(t, room, r.FindRoom("room01"))
	assert.Nil(t, r.FindRoom("nosuch"))

	u := r.FindUser("user01")
	require.NotNil(t, u)
	assert.Equal(t, "room01", u.RoomID)
	assert.Nil(t, r.FindUser("nosuch"))
}

func TestRemoveUserReapsEmptyRoom(t *testing.T) {
	r := NewRegistry()
	addRoomWithUsers(r, "room01", Public, "user01")

	removed, reaped := r.RemoveUserAndProcess("user01", func(*Room, []*User) {
		t.Fatal("fn must not run when the room is reaped")
	})

	require.NotNil(t, removed)
	assert.True(t, reaped)
	assert.Nil(t, r.FindRoom("room01"))
	assert.Nil(t, r.FindUser("user01"))
}

func TestRemoveUserHandsFnTheSurvivors(t *testing.T) {
	r := NewRegistry()
	addRoomWithUsers(r, "room01", Public, "user01", "user02", "user03")

	var got []string
	removed, reaped := r.RemoveUserAndProcess("user02", func(room *Room, remaining []*User) {
		assert.Equal(t, 2, room.AmountOfUsers)
		for _, u := range remaining {
			got = append(got, u.ID)
		}
	})

	require.NotNil(t, removed)
	assert.False(t, reaped)
	assert.ElementsMatch(t, []string{"user01", "user03"}, got)
	assert.NotNil(t, r.FindRoom("room01"))
}

func TestRemoveUnknownUserIsANoOp(t *testing.T) {
	r := NewRegistry()
	addRoomWithUsers(r, "room01", Public, "user01")

	removed, reaped := r.RemoveUserAndProcess("nosuch", nil)
	assert.Nil(t, removed)
	assert.False(t, reaped)
	assert.Equal(t, 1, r.FindRoom("room01").AmountOfUsers)
}

func TestCounts(t *testing.T) {
	r := NewRegistry()
	addRoomWithUsers(r, "room01", Public, "user01", "user02")
	addRoomWithUsers(r, "room02", Private, "user03")

	rooms, users := r.Counts()
	assert.Equal(t, 2, rooms)
	assert.Equal(t, 3, users)
}

func TestIdleRooms(t *testing.T) {
	r := NewRegistry()
	stale := addRoomWithUsers(r, "sleepy", Public, "user01")
	stale.LastActivityAt = time.Now().Add(-2 * time.Hour)

	fresh := addRoomWithUsers(r, "active", Public, "user02")
	fresh.LastActivityAt = time.Now()

	busy := addRoomWithUsers(r, "midgam", Public, "user03", "user04")
	busy.State.Kind = Playing
	busy.LastActivityAt = time.Now().Add(-2 * time.Hour)

	ids := r.IdleRooms(time.Now().Add(-time.Hour))
	assert.Equal(t, []string{"sleepy"}, ids)
}

func TestWithRoomAndUsersSeesAConsistentView(t *testing.T) {
	r := NewRegistry()
	addRoomWithUsers(r, "room01", Public, "user01", "user02")

	err := r.WithRoomAndUsers("room01", func(room *Room, users []*User) error {
		require.NotNil(t, room)
		assert.Equal(t, room.AmountOfUsers, len(users))
		return nil
	})
	require.NoError(t, err)

	err = r.WithRoomAndUsers("nosuch", func(room *Room, users []*User) error {
		assert.Nil(t, room)
		assert.Empty(t, users)
		return nil
	})
	require.NoError(t, err)
}
