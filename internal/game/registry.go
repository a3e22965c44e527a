package game

import (
	"sync"
	"time"
)

// Registry is the process-wide (rooms, users) pair. Every mutation that
// touches both tables acquires roomsMu before usersMu, and the critical
// section spans every dependent read/write so membership counts and room
// lookups never observe a half-applied mutation. Lookups are linear scans:
// the live data sets are small (tens of rooms, low hundreds of users).
type Registry struct {
	roomsMu sync.Mutex
	rooms   []*Room

	usersMu sync.Mutex
	users   []*User
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// FindAvailablePublicRoom returns the first Public room in Waiting with
// spare capacity, or nil.
func (r *Registry) FindAvailablePublicRoom() *Room {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	for _, room := range r.rooms {
		if room.Visibility == Public && room.State.Kind == Waiting && room.AmountOfUsers < room.MaxUsers {
			return room
		}
	}
	return nil
}

// FindRoom looks up a room by id.
func (r *Registry) FindRoom(id string) *Room {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	return r.findRoomLocked(id)
}

func (r *Registry) findRoomLocked(id string) *Room {
	for _, room := range r.rooms {
		if room.ID == id {
			return room
		}
	}
	return nil
}

// FindUser looks up a user by id.
func (r *Registry) FindUser(id string) *User {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	return r.findUserLocked(id)
}

func (r *Registry) findUserLocked(id string) *User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UsersInRoom returns every user currently belonging to roomID.
func (r *Registry) UsersInRoom(roomID string) []*User {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	return r.usersInRoomLocked(roomID)
}

func (r *Registry) usersInRoomLocked(roomID string) []*User {
	var out []*User
	for _, u := range r.users {
		if u.RoomID == roomID {
			out = append(out, u)
		}
	}
	return out
}

// AddRoom registers a new room. Callers are expected to have already
// produced a collision-free id via GenID + FindRoom.
func (r *Registry) AddRoom(room *Room) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	r.rooms = append(r.rooms, room)
}

// ReapRoom removes a room from the registry. Called once its last user has
// left; it never touches the users table itself (the caller is expected to
// have already removed every member).
func (r *Registry) ReapRoom(id string) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	r.reapRoomLocked(id)
}

func (r *Registry) reapRoomLocked(id string) {
	for i, room := range r.rooms {
		if room.ID == id {
			r.rooms = append(r.rooms[:i], r.rooms[i+1:]...)
			return
		}
	}
}

// AddUser registers a new user and increments its room's AmountOfUsers in
// the same critical section, holding rooms before users per the fixed lock
// order.
func (r *Registry) AddUser(u *User) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	if room := r.findRoomLocked(u.RoomID); room != nil {
		room.AmountOfUsers++
		room.LastActivityAt = time.Now()
	}
	r.users = append(r.users, u)
}

// RemoveUserAndProcess atomically removes id from its room and, unless that
// left the room empty (in which case it's reaped and fn is never called),
// hands fn the now-live room and its remaining members so a caller like the
// Close Orchestrator can apply further state transitions in the same
// critical section the removal happened in. fn must not block on socket or
// bus I/O.
func (r *Registry) RemoveUserAndProcess(id string, fn func(room *Room, remaining []*User)) (removed *User, reaped bool) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	idx := -1
	for i, u := range r.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	removed = r.users[idx]
	r.users = append(r.users[:idx], r.users[idx+1:]...)

	room := r.findRoomLocked(removed.RoomID)
	if room == nil {
		return removed, false
	}

	room.AmountOfUsers--
	if room.AmountOfUsers <= 0 {
		r.reapRoomLocked(room.ID)
		return removed, true
	}

	if fn != nil {
		fn(room, r.usersInRoomLocked(room.ID))
	}
	return removed, false
}

// Counts reports how many rooms and users are currently live, for the
// health endpoint.
func (r *Registry) Counts() (rooms, users int) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	return len(r.rooms), len(r.users)
}

// IdleRooms returns the ids of every Waiting room whose LastActivityAt
// predates cutoff, for the idle-room reaper.
func (r *Registry) IdleRooms(cutoff time.Time) []string {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	var out []string
	for _, room := range r.rooms {
		if room.State.Kind == Waiting && room.LastActivityAt.Before(cutoff) {
			out = append(out, room.ID)
		}
	}
	return out
}

// WithRoomAndUsers runs fn holding both locks (rooms-then-users), giving fn
// a consistent view of a room and its member list for compound operations
// (StartGame, PickAWord, Message, close orchestration) that must read and
// mutate both tables atomically. fn must not block on socket or bus I/O.
func (r *Registry) WithRoomAndUsers(roomID string, fn func(room *Room, users []*User) error) error {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	room := r.findRoomLocked(roomID)
	return fn(room, r.usersInRoomLocked(roomID))
}
