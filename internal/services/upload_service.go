package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"whitebeat/internal/storage"
	wb_errors "whitebeat/pkg/errors"
)

// PresignInput describes the object a client wants to upload.
type PresignInput struct {
	OwnerID     uuid.UUID
	FileName    string
	ContentType string
	// Kind prefixes the object key: "message", "status" or "avatar".
	Kind string
}

// PresignResult holds the upload URL and the key to store as the media
// reference.
type PresignResult struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

var allowedUploadKinds = map[string]bool{
	"message": true,
	"status":  true,
	"avatar":  true,
}

type UploadService struct {
	store *storage.Client
}

func NewUploadService(store *storage.Client) *UploadService {
	return &UploadService{store: store}
}

// PresignUpload returns a one-shot PUT URL. The caller uploads directly to
// object storage and then references the returned key on a send.
func (s *UploadService) PresignUpload(ctx context.Context, in PresignInput) (PresignResult, error) {
	if s.store == nil {
		return PresignResult{}, wb_errors.ErrInvalidState
	}
	if in.OwnerID == uuid.Nil || in.FileName == "" || in.ContentType == "" {
		return PresignResult{}, wb_errors.ErrInvalidArgument
	}
	if !allowedUploadKinds[in.Kind] {
		return PresignResult{}, wb_errors.ErrInvalidArgument
	}

	ext := strings.ToLower(path.Ext(in.FileName))
	key := fmt.Sprintf("%s/%s/%s%s", in.Kind, in.OwnerID, uuid.NewString(), ext)

	url, err := s.store.PresignPut(ctx, key, in.ContentType)
	if err != nil {
		return PresignResult{}, err
	}
	return PresignResult{UploadURL: url, ObjectKey: key}, nil
}

// DownloadURL presigns a read for a stored object key.
func (s *UploadService) DownloadURL(ctx context.Context, key string) (string, error) {
	if s.store == nil {
		return "", wb_errors.ErrInvalidState
	}
	if key == "" {
		return "", wb_errors.ErrInvalidArgument
	}
	return s.store.PresignGet(ctx, key)
}
