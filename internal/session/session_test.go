package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetUnknownChat(t *testing.T) {
	s := NewMemoryStore()

	sess, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Draft.MediaFiles)
}

func TestMemoryStoreUpdateAccumulates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Update(ctx, 42, func(sess *Session) {
		sess.State = StateFullName
		sess.Draft.Language = "uz"
	})
	require.NoError(t, err)

	sess, err := s.Update(ctx, 42, func(sess *Session) {
		sess.Draft.FullName = "Ali Valiyev"
	})
	require.NoError(t, err)

	// Earlier fields survive subsequent updates.
	assert.Equal(t, StateFullName, sess.State)
	assert.Equal(t, "uz", sess.Draft.Language)
	assert.Equal(t, "Ali Valiyev", sess.Draft.FullName)
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Update(ctx, 42, func(sess *Session) {
		sess.State = StateConfirmation
		sess.Draft.ComplaintText = "some accumulated text over twenty chars"
	})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, 42))

	sess, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Draft.ComplaintText)
}

func TestMemoryStoreIsolatesChats(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Update(ctx, 1, func(sess *Session) { sess.State = StateRegion })
	require.NoError(t, err)

	sess, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)
}

// Concurrent updates to the same chat must not lose increments.
func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, 7, func(sess *Session) {
				sess.Draft.MediaFiles = append(sess.Draft.MediaFiles, MediaFile{FileID: "f", FileType: "photo"})
			})
		}()
	}
	wg.Wait()

	sess, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, sess.Draft.MediaFiles, n)
}
