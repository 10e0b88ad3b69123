package engage

import (
	"context"
	"fmt"
)

// CounterStore recomputes one denormalized counter on a post from a fresh
// count of its live child rows, persisting just that column.
type CounterStore interface {
	RecountLikes(ctx context.Context, postID int64) error
	RecountComments(ctx context.Context, postID int64) error
	RecountShares(ctx context.Context, postID int64) error
}

// CounterObserver keeps Post.likes_count / comments_count / shares_count in
// sync with the underlying rows. Recomputation rather than
// increment/decrement, so any prior drift heals on the next event.
type CounterObserver struct {
	store CounterStore
}

func NewCounterObserver(store CounterStore) *CounterObserver {
	return &CounterObserver{store: store}
}

func (c *CounterObserver) Name() string {
	return "counter_observer"
}

func (c *CounterObserver) Update(event Event) error {
	ctx := context.Background()

	switch event.Kind {
	case LikeAdded, LikeRemoved:
		if err := c.store.RecountLikes(ctx, event.PostID); err != nil {
			return fmt.Errorf("recount likes for post %d: %w", event.PostID, err)
		}
	case CommentAdded, CommentRemoved:
		if err := c.store.RecountComments(ctx, event.PostID); err != nil {
			return fmt.Errorf("recount comments for post %d: %w", event.PostID, err)
		}
	case ShareAdded:
		if err := c.store.RecountShares(ctx, event.PostID); err != nil {
			return fmt.Errorf("recount shares for post %d: %w", event.PostID, err)
		}
	}

	return nil
}
