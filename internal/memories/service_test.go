package memories

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	memories  []*Memory
	nextID    int64
	createErr error
}

func (r *fakeRepo) CreateMemory(ctx context.Context, m *Memory) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.memories = append(r.memories, m)
	return nil
}

func (r *fakeRepo) GetMemory(ctx context.Context, id int64) (*Memory, error) {
	for _, m := range r.memories {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListMemories(ctx context.Context, userID int64, limit, offset int, favoritesOnly bool) ([]*Memory, error) {
	var out []*Memory
	for _, m := range r.memories {
		if m.UserID == userID && (!favoritesOnly || m.Favorite) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountMemories(ctx context.Context, userID int64, favoritesOnly bool) (int, error) {
	list, _ := r.ListMemories(ctx, userID, 0, 0, favoritesOnly)
	return len(list), nil
}

func (r *fakeRepo) UpdateMemory(ctx context.Context, id int64, updates map[string]interface{}) error {
	for _, m := range r.memories {
		if m.ID == id {
			if v, ok := updates["title"]; ok {
				m.Title = v.(string)
			}
			if v, ok := updates["note"]; ok {
				m.Note = v.(string)
			}
			if v, ok := updates["favorite"]; ok {
				m.Favorite = v.(bool)
			}
			if v, ok := updates["memory_date"]; ok {
				m.MemoryDate = v.(time.Time)
			}
		}
	}
	return nil
}

func (r *fakeRepo) DeleteMemory(ctx context.Context, id int64) error {
	for i, m := range r.memories {
		if m.ID == id {
			r.memories = append(r.memories[:i], r.memories[i+1:]...)
			break
		}
	}
	return nil
}

type fakeFile struct{ *bytes.Reader }

func (fakeFile) Close() error { return nil }

func jpegUpload(content string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: "photo.jpg",
		Size:     int64(len(content)),
		Header:   textproto.MIMEHeader{"Content-Type": {"image/jpeg"}},
	}
	return fakeFile{bytes.NewReader([]byte(content))}, header
}

var memoryDate = time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)

func TestCreateMemoryWithPhoto(t *testing.T) {
	repo := &fakeRepo{}
	uploads := NewMockUploadService()
	svc := NewService(repo, uploads)

	photo, header := jpegUpload("fake jpeg bytes")
	memory, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "First Valentine's dinner",
		Note:       "The place with the tiny candles",
		MemoryDate: memoryDate,
	}, photo, header)
	require.NoError(t, err)

	require.NotNil(t, memory.PhotoURL)
	require.Len(t, uploads.Uploaded, 1)
	assert.Equal(t, uploads.Uploaded[0], *memory.PhotoURL)
	assert.Contains(t, *memory.PhotoURL, "memories/1/")
}

func TestCreateMemoryWithoutPhoto(t *testing.T) {
	repo := &fakeRepo{}
	uploads := NewMockUploadService()
	svc := NewService(repo, uploads)

	memory, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "Rainy Sunday pancakes",
		MemoryDate: memoryDate,
	}, nil, nil)
	require.NoError(t, err)

	assert.Nil(t, memory.PhotoURL)
	assert.Empty(t, uploads.Uploaded)
}

func TestCreateMemoryRejectsUnsupportedPhoto(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewMockUploadService())

	header := &multipart.FileHeader{
		Filename: "clip.mp4",
		Header:   textproto.MIMEHeader{"Content-Type": {"video/mp4"}},
	}
	_, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "Nope",
		MemoryDate: memoryDate,
	}, fakeFile{bytes.NewReader([]byte("x"))}, header)

	assert.ErrorIs(t, err, ErrUnsupportedPhotoType)
	assert.Empty(t, repo.memories)
}

func TestCreateMemoryCleansUpPhotoOnRepoError(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("db down")}
	uploads := NewMockUploadService()
	svc := NewService(repo, uploads)

	photo, header := jpegUpload("fake jpeg bytes")
	_, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "Doomed",
		MemoryDate: memoryDate,
	}, photo, header)

	require.Error(t, err)
	require.Len(t, uploads.Uploaded, 1)
	assert.Equal(t, uploads.Uploaded, uploads.Deleted, "orphaned photo removed")
}

func TestGetMemoryOwnership(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewMockUploadService())

	created, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "Ours",
		MemoryDate: memoryDate,
	}, nil, nil)
	require.NoError(t, err)

	_, err = svc.GetMemory(context.Background(), created.ID, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GetMemory(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrMemoryNotFound)
}

func TestUpdateMemoryPartial(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewMockUploadService())

	created, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "Hike",
		Note:       "Muddy",
		MemoryDate: memoryDate,
	}, nil, nil)
	require.NoError(t, err)

	favorite := true
	updated, err := svc.UpdateMemory(context.Background(), created.ID, 1, &UpdateMemoryRequest{
		Favorite: &favorite,
	})
	require.NoError(t, err)

	assert.True(t, updated.Favorite)
	assert.Equal(t, "Hike", updated.Title, "unset fields untouched")
	assert.Equal(t, "Muddy", updated.Note)
}

func TestDeleteMemoryRemovesPhoto(t *testing.T) {
	repo := &fakeRepo{}
	uploads := NewMockUploadService()
	svc := NewService(repo, uploads)

	photo, header := jpegUpload("fake jpeg bytes")
	created, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
		Title:      "Beach day",
		MemoryDate: memoryDate,
	}, photo, header)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMemory(context.Background(), created.ID, 1))

	assert.Empty(t, repo.memories)
	require.Len(t, uploads.Deleted, 1)
	assert.Equal(t, uploads.Uploaded[0], uploads.Deleted[0])
}

func TestListMemoriesFavoritesFilter(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewMockUploadService())

	for i, fav := range []bool{true, false, true} {
		m, err := svc.CreateMemory(context.Background(), 1, &CreateMemoryRequest{
			Title:      "m",
			MemoryDate: memoryDate.AddDate(0, 0, i),
		}, nil, nil)
		require.NoError(t, err)
		if fav {
			f := true
			_, err = svc.UpdateMemory(context.Background(), m.ID, 1, &UpdateMemoryRequest{Favorite: &f})
			require.NoError(t, err)
		}
	}

	resp, err := svc.ListMemories(context.Background(), 1, 10, 0, true)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalCount)
	assert.Len(t, resp.Memories, 2)
	assert.False(t, resp.HasMore)
}
