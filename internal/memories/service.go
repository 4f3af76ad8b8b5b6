// internal/memories/service.go

package memories

import (
	"context"
	"log"
	"mime/multipart"
)

type Service interface {
	CreateMemory(ctx context.Context, userID int64, req *CreateMemoryRequest, photo multipart.File, photoHeader *multipart.FileHeader) (*Memory, error)
	GetMemory(ctx context.Context, memoryID, userID int64) (*Memory, error)
	ListMemories(ctx context.Context, userID int64, limit, offset int, favoritesOnly bool) (*MemoriesResponse, error)
	UpdateMemory(ctx context.Context, memoryID, userID int64, req *UpdateMemoryRequest) (*Memory, error)
	DeleteMemory(ctx context.Context, memoryID, userID int64) error
}

type service struct {
	repo    Repository
	uploads UploadService
}

func NewService(repo Repository, uploads UploadService) Service {
	return &service{repo: repo, uploads: uploads}
}

// CreateMemory stores the entry, uploading the photo first when one is
// attached.
func (s *service) CreateMemory(ctx context.Context, userID int64, req *CreateMemoryRequest, photo multipart.File, photoHeader *multipart.FileHeader) (*Memory, error) {
	memory := &Memory{
		UserID:     userID,
		Title:      req.Title,
		Note:       req.Note,
		MemoryDate: req.MemoryDate,
	}

	if photo != nil && photoHeader != nil {
		url, err := s.uploads.UploadPhoto(ctx, userID, photo, photoHeader)
		if err != nil {
			return nil, err
		}
		memory.PhotoURL = &url
	}

	if err := s.repo.CreateMemory(ctx, memory); err != nil {
		// Don't leave an orphaned photo behind.
		if memory.PhotoURL != nil {
			if derr := s.uploads.DeletePhoto(ctx, *memory.PhotoURL); derr != nil {
				log.Printf("Failed to clean up photo after create error: %v", derr)
			}
		}
		return nil, err
	}

	return memory, nil
}

func (s *service) GetMemory(ctx context.Context, memoryID, userID int64) (*Memory, error) {
	memory, err := s.repo.GetMemory(ctx, memoryID)
	if err != nil {
		return nil, err
	}
	if memory == nil {
		return nil, ErrMemoryNotFound
	}
	if memory.UserID != userID {
		return nil, ErrUnauthorized
	}
	return memory, nil
}

func (s *service) ListMemories(ctx context.Context, userID int64, limit, offset int, favoritesOnly bool) (*MemoriesResponse, error) {
	if limit == 0 {
		limit = 20
	}

	list, err := s.repo.ListMemories(ctx, userID, limit, offset, favoritesOnly)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountMemories(ctx, userID, favoritesOnly)
	if err != nil {
		total = len(list)
	}

	return &MemoriesResponse{
		Memories:   list,
		TotalCount: total,
		HasMore:    offset+len(list) < total,
	}, nil
}

func (s *service) UpdateMemory(ctx context.Context, memoryID, userID int64, req *UpdateMemoryRequest) (*Memory, error) {
	if _, err := s.GetMemory(ctx, memoryID, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.MemoryDate != nil {
		updates["memory_date"] = *req.MemoryDate
	}
	if req.Favorite != nil {
		updates["favorite"] = *req.Favorite
	}

	if err := s.repo.UpdateMemory(ctx, memoryID, updates); err != nil {
		return nil, err
	}

	return s.repo.GetMemory(ctx, memoryID)
}

// DeleteMemory removes the entry and its photo.
func (s *service) DeleteMemory(ctx context.Context, memoryID, userID int64) error {
	memory, err := s.GetMemory(ctx, memoryID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMemory(ctx, memoryID); err != nil {
		return err
	}

	if memory.PhotoURL != nil {
		if err := s.uploads.DeletePhoto(ctx, *memory.PhotoURL); err != nil {
			// Row is gone; the orphaned object is a cleanup-job concern.
			log.Printf("Failed to delete photo for memory %d: %v", memoryID, err)
		}
	}

	return nil
}
