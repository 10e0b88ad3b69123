package engage

import "time"

// EventKind identifies which child-row mutation happened under a post.
type EventKind string

const (
	LikeAdded      EventKind = "like_added"
	LikeRemoved    EventKind = "like_removed"
	CommentAdded   EventKind = "comment_added"
	CommentRemoved EventKind = "comment_removed"
	ShareAdded     EventKind = "share_added"
)

// Event is published after a Like, Comment or PostShare row is created or
// deleted. Observers receive it on the mutating request's goroutine.
type Event struct {
	Kind    EventKind
	PostID  int64
	ActorID uint64
	At      time.Time
}

type Observer interface {
	Update(event Event) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event Event)
}
