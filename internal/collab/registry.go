package collab

import "sort"

// Registry tracks which connections are in which session rooms. It is not safe for
// concurrent use; the hub's event loop owns it.
type Registry struct {
	rooms map[string]map[string]struct{}
	conns map[string]*member
}

type member struct {
	userID string
	rooms  map[string]struct{}
}

type RoomStats struct {
	SessionID    string `json:"sessionId"`
	Participants int    `json:"participants"`
}

type RegistryStats struct {
	ActiveSessions int         `json:"activeSessions"`
	ConnectedUsers int         `json:"connectedUsers"`
	Sessions       []RoomStats `json:"sessions"`
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]struct{}),
		conns: make(map[string]*member),
	}
}

// Join adds connID to room. Joining the same room twice is a no-op apart from
// refreshing the user id.
func (r *Registry) Join(room, connID, userID string) {
	m, ok := r.conns[connID]
	if !ok {
		m = &member{rooms: make(map[string]struct{})}
		r.conns[connID] = m
	}
	m.userID = userID
	m.rooms[room] = struct{}{}

	set, ok := r.rooms[room]
	if !ok {
		set = make(map[string]struct{})
		r.rooms[room] = set
	}
	set[connID] = struct{}{}
}

// LeaveRoom removes connID from one room and reports whether it was a member.
func (r *Registry) LeaveRoom(room, connID string) bool {
	m, ok := r.conns[connID]
	if !ok {
		return false
	}
	if _, in := m.rooms[room]; !in {
		return false
	}
	delete(m.rooms, room)
	if len(m.rooms) == 0 {
		delete(r.conns, connID)
	}
	r.removeFromRoom(room, connID)
	return true
}

// Leave removes connID from every room and returns those rooms in sorted order.
func (r *Registry) Leave(connID string) []string {
	m, ok := r.conns[connID]
	if !ok {
		return nil
	}
	delete(r.conns, connID)

	rooms := make([]string, 0, len(m.rooms))
	for room := range m.rooms {
		r.removeFromRoom(room, connID)
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

func (r *Registry) removeFromRoom(room, connID string) {
	set, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.rooms, room)
	}
}

func (r *Registry) ParticipantCount(room string) int {
	return len(r.rooms[room])
}

func (r *Registry) UserID(connID string) (string, bool) {
	m, ok := r.conns[connID]
	if !ok {
		return "", false
	}
	return m.userID, true
}

func (r *Registry) Members(room string) []string {
	set := r.rooms[room]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) RoomCount() int {
	return len(r.rooms)
}

func (r *Registry) Stats() RegistryStats {
	stats := RegistryStats{
		ActiveSessions: len(r.rooms),
		ConnectedUsers: len(r.conns),
		Sessions:       make([]RoomStats, 0, len(r.rooms)),
	}
	for room, set := range r.rooms {
		stats.Sessions = append(stats.Sessions, RoomStats{SessionID: room, Participants: len(set)})
	}
	sort.Slice(stats.Sessions, func(i, j int) bool {
		return stats.Sessions[i].SessionID < stats.Sessions[j].SessionID
	})
	return stats
}
