package client

// ResourceKind enumerates every cacheable resource class. Keys are a
// tagged pair rather than free-form strings so the key space stays
// exhaustively checkable.
type ResourceKind string

const (
	KindProject       ResourceKind = "project"
	KindTasks         ResourceKind = "tasks"
	KindFocus         ResourceKind = "focus"
	KindMembers       ResourceKind = "members"
	KindNotes         ResourceKind = "notes"
	KindNotifications ResourceKind = "notifications"
)

// Key identifies one cache entry: a resource kind plus the scope it is
// read under (a project id, or a user id for notifications).
type Key struct {
	Kind  ResourceKind
	Scope string
}

func ProjectKey(projectID string) Key { return Key{Kind: KindProject, Scope: projectID} }
func TasksKey(projectID string) Key   { return Key{Kind: KindTasks, Scope: projectID} }
func MembersKey(projectID string) Key { return Key{Kind: KindMembers, Scope: projectID} }
func NotesKey(projectID string) Key   { return Key{Kind: KindNotes, Scope: projectID} }

// FocusKey scopes the personal and team focus views separately.
func FocusKey(projectID, when string) Key {
	return Key{Kind: KindFocus, Scope: projectID + ":" + when}
}

func NotificationsKey(userID string) Key {
	return Key{Kind: KindNotifications, Scope: userID}
}

// pollKeys is the fixed set of keys a poller round invalidates for an
// actively viewed project.
func pollKeys(projectID string) []Key {
	return []Key{
		TasksKey(projectID),
		FocusKey(projectID, "mine"),
		FocusKey(projectID, "team"),
		MembersKey(projectID),
		NotesKey(projectID),
	}
}
