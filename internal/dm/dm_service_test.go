package dm

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmongo"
	"campusfeed/internal/dbmysql"
	"campusfeed/internal/engage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memDMStore struct {
	nextMessageID int64
	convs         map[string]*dbmysql.Conversation
	byPair        map[string]*dbmysql.Conversation
	messages      map[int64]*dbmysql.DirectMessage
}

func newMemDMStore() *memDMStore {
	return &memDMStore{
		convs:    map[string]*dbmysql.Conversation{},
		byPair:   map[string]*dbmysql.Conversation{},
		messages: map[int64]*dbmysql.DirectMessage{},
	}
}

func (m *memDMStore) GetOrCreateConversation(_ context.Context, id string, a, b uint64) (*dbmysql.Conversation, error) {
	pairKey := dbmysql.ConversationPairKey(a, b)
	if conv, ok := m.byPair[pairKey]; ok {
		return conv, nil
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	conv := &dbmysql.Conversation{
		ID:        id,
		PairKey:   pairKey,
		UserAID:   lo,
		UserBID:   hi,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.convs[id] = conv
	m.byPair[pairKey] = conv
	return conv, nil
}

func (m *memDMStore) GetConversation(_ context.Context, id string) (*dbmysql.Conversation, error) {
	conv, ok := m.convs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return conv, nil
}

func (m *memDMStore) ListConversations(_ context.Context, userID uint64) ([]InboxEntry, error) {
	var entries []InboxEntry
	for _, conv := range m.convs {
		if conv.UserAID != userID && conv.UserBID != userID {
			continue
		}
		entry := InboxEntry{Conversation: *conv}
		for _, msg := range m.messages {
			if msg.ConversationID != conv.ID {
				continue
			}
			if entry.LastMessage == nil || msg.CreatedAt.After(entry.LastMessage.CreatedAt) {
				cp := *msg
				entry.LastMessage = &cp
			}
			if msg.RecipientID == userID && !msg.IsRead {
				entry.UnreadCount++
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *memDMStore) TouchConversation(_ context.Context, id string, at time.Time) error {
	if conv, ok := m.convs[id]; ok {
		conv.UpdatedAt = at
	}
	return nil
}

func (m *memDMStore) CreateMessage(_ context.Context, msg *dbmysql.DirectMessage) error {
	m.nextMessageID++
	msg.MessageID = m.nextMessageID
	cp := *msg
	m.messages[msg.MessageID] = &cp
	return nil
}

func (m *memDMStore) GetMessageByID(_ context.Context, id int64) (*dbmysql.DirectMessage, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (m *memDMStore) ListMessages(_ context.Context, conversationID string, limit, offset int) ([]dbmysql.DirectMessage, error) {
	var out []dbmysql.DirectMessage
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memDMStore) ListMessagesSince(_ context.Context, conversationID string, since time.Time) ([]dbmysql.DirectMessage, error) {
	var out []dbmysql.DirectMessage
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.CreatedAt.After(since) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memDMStore) MarkConversationRead(_ context.Context, conversationID string, recipientID uint64) (int64, error) {
	var marked int64
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.RecipientID == recipientID && !msg.IsRead {
			msg.IsRead = true
			marked++
		}
	}
	return marked, nil
}

func (m *memDMStore) CountUnread(_ context.Context, conversationID string, recipientID uint64) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.RecipientID == recipientID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memDMStore) UnreadTotal(_ context.Context, userID uint64) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.RecipientID == userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memDMStore) DeleteMessage(_ context.Context, id int64) error {
	delete(m.messages, id)
	return nil
}

type fakeUsers struct {
	users map[uint64]*dbmysql.User
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uint64) (*dbmysql.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

type fakePosts struct {
	posts  map[int64]*dbmysql.Post
	shares []dbmysql.PostShare
}

func (f *fakePosts) GetPostByID(_ context.Context, id int64) (*dbmysql.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return post, nil
}

func (f *fakePosts) CreateShare(_ context.Context, share *dbmysql.PostShare) error {
	f.shares = append(f.shares, *share)
	return nil
}

type fakeMedia struct {
	uploads int
	deleted []string
}

func (f *fakeMedia) UploadFile(_ context.Context, filename, mimeType, uploaderID string, _ io.Reader) (*dbmongo.MediaFile, error) {
	f.uploads++
	return &dbmongo.MediaFile{ID: fmt.Sprintf("file-%d", f.uploads), Filename: filename, MimeType: mimeType}, nil
}

func (f *fakeMedia) DeleteFile(_ context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return nil
}

type recordingSubject struct {
	events []engage.Event
}

func (r *recordingSubject) Subscribe(engage.Observer)   {}
func (r *recordingSubject) Unsubscribe(engage.Observer) {}
func (r *recordingSubject) Notify(event engage.Event)   { r.events = append(r.events, event) }

func newTestDMService(t *testing.T) (*DMService, *memDMStore, *fakePosts, *recordingSubject) {
	t.Helper()
	store := newMemDMStore()
	users := &fakeUsers{users: map[uint64]*dbmysql.User{
		1: {UserID: 1, Handle: "alice"},
		2: {UserID: 2, Handle: "bob"},
		3: {UserID: 3, Handle: "carol"},
	}}
	posts := &fakePosts{posts: map[int64]*dbmysql.Post{
		10: {PostID: 10, Content: "shared post", Category: "GENERAL"},
	}}
	events := &recordingSubject{}
	svc := NewDMService(store, store, users, posts, &fakeMedia{}, events,
		"http://localhost:8080/media/", zap.NewNop())
	return svc, store, posts, events
}

func TestOpenConversation_SamePairSameThread(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	first, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	// Opposite direction resolves to the same thread.
	second, err := svc.OpenConversation(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "1:2", first.PairKey)
}

func TestOpenConversation_SelfRejected(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	_, err := svc.OpenConversation(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestOpenConversation_UnknownUser(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	_, err := svc.OpenConversation(context.Background(), 1, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSendMessage_TextAndRecipient(t *testing.T) {
	svc, store, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	view, err := svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "hey"})
	require.NoError(t, err)
	assert.Equal(t, dbmysql.MessageTypeText, view.MessageType)
	assert.True(t, view.IsOwn)

	stored := store.messages[view.ID]
	require.NotNil(t, stored)
	assert.Equal(t, uint64(2), stored.RecipientID)
}

func TestSendMessage_NonMemberForbidden(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, 3, conv.ID, MessageInput{Content: "intruding"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSendMessage_RequiresPayload(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, 1, conv.ID, MessageInput{})
	assert.Error(t, err)
}

func TestSendMessage_TypePriority(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	upload := func(name string) *Upload {
		return &Upload{Name: name, MimeType: "application/octet-stream", Data: nil}
	}

	// Voice wins over everything else attached to the same message.
	view, err := svc.SendMessage(ctx, 1, conv.ID, MessageInput{
		Content: "all at once",
		Image:   upload("a.png"),
		Video:   upload("b.mp4"),
		Voice:   upload("c.ogg"),
	})
	require.NoError(t, err)
	assert.Equal(t, dbmysql.MessageTypeVoice, view.MessageType)

	view, err = svc.SendMessage(ctx, 1, conv.ID, MessageInput{
		Image: upload("a.png"),
		Video: upload("b.mp4"),
	})
	require.NoError(t, err)
	assert.Equal(t, dbmysql.MessageTypeVideo, view.MessageType)

	view, err = svc.SendMessage(ctx, 1, conv.ID, MessageInput{Image: upload("a.png")})
	require.NoError(t, err)
	assert.Equal(t, dbmysql.MessageTypeImage, view.MessageType)
}

func TestMarkRead_OnlyRecipientSide(t *testing.T) {
	svc, store, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "to bob"})
		require.NoError(t, err)
	}
	_, err = svc.SendMessage(ctx, 2, conv.ID, MessageInput{Content: "to alice"})
	require.NoError(t, err)

	marked, err := svc.MarkRead(ctx, 2, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)

	// Alice's incoming message is still unread.
	unread, err := store.UnreadTotal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// Re-marking is a no-op.
	marked, err = svc.MarkRead(ctx, 2, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked)
}

func TestUnreadTotal_AcrossConversations(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	convAB, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)
	convCB, err := svc.OpenConversation(ctx, 3, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, 1, convAB.ID, MessageInput{Content: "hello"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 3, convCB.ID, MessageInput{Content: "hi"})
	require.NoError(t, err)

	total, err := svc.UnreadTotal(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSharePost_RecordsShareAndEvent(t *testing.T) {
	svc, _, posts, events := newTestDMService(t)
	ctx := context.Background()

	view, err := svc.SharePost(ctx, 1, 2, 10, "check this out")
	require.NoError(t, err)
	assert.Equal(t, dbmysql.MessageTypePost, view.MessageType)
	require.NotNil(t, view.SharedPost)
	assert.Equal(t, int64(10), view.SharedPost.ID)

	require.Len(t, posts.shares, 1)
	assert.Equal(t, dbmysql.ShareViaDM, posts.shares[0].SharedVia)

	require.Len(t, events.events, 1)
	assert.Equal(t, engage.ShareAdded, events.events[0].Kind)
	assert.Equal(t, int64(10), events.events[0].PostID)
}

func TestSharePost_UnknownPost(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	_, err := svc.SharePost(context.Background(), 1, 2, 404, "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMessagesSince_MalformedCursorIsEmpty(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "hello"})
	require.NoError(t, err)

	views, err := svc.MessagesSince(ctx, 2, conv.ID, "garbage")
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = svc.MessagesSince(ctx, 2, conv.ID, "")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestMessagesSince_ReturnsNewerOnly(t *testing.T) {
	svc, store, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)

	first, err := svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "old"})
	require.NoError(t, err)
	store.messages[first.ID].CreatedAt = time.Now().Add(-time.Hour)

	_, err = svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "new"})
	require.NoError(t, err)

	since := time.Now().Add(-time.Minute).Format(time.RFC3339Nano)
	views, err := svc.MessagesSince(ctx, 2, conv.ID, since)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "new", views[0].Content)
}

func TestDeleteMessage_OnlySender(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)
	view, err := svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "oops"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, 2, view.ID), common.ErrForbidden)
	require.NoError(t, svc.DeleteMessage(ctx, 1, view.ID))
}

func TestInbox_LastMessageAndUnread(t *testing.T) {
	svc, _, _, _ := newTestDMService(t)
	ctx := context.Background()

	conv, err := svc.OpenConversation(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 1, conv.ID, MessageInput{Content: "latest text"})
	require.NoError(t, err)

	inbox, err := svc.Inbox(ctx, 2)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "alice", inbox[0].OtherHandle)
	assert.Equal(t, "latest text", inbox[0].LastMessage)
	assert.Equal(t, int64(1), inbox[0].UnreadCount)
}

func TestMessagePreview_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", 80)
	preview := messagePreview(&dbmysql.DirectMessage{
		MessageType: dbmysql.MessageTypeText,
		Content:     long,
	})

	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, 60, utf8.RuneCountInString(preview))

	short := messagePreview(&dbmysql.DirectMessage{
		MessageType: dbmysql.MessageTypeText,
		Content:     "hey",
	})
	assert.Equal(t, "hey", short)
}
