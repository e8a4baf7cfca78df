package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const (
	medicalDocumentNamespace = "incidencias"
	pdfContentType           = "application/pdf"
)

type FileService interface {
	// UploadMedicalDocument stores a justification PDF for an incident request
	UploadMedicalDocument(ctx context.Context, requestID int64, file io.Reader, uploadedAt time.Time) (string, error)

	// OpenFile streams a stored file. Missing files yield storage.ErrFileNotFound.
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// MedicalDocumentPath builds incidencias/{id}/justificante_{id}_{timestamp}_{suffix}.pdf.
func MedicalDocumentPath(requestID int64, uploadedAt time.Time, suffix string) string {
	name := fmt.Sprintf("justificante_%d_%s_%s.pdf", requestID, uploadedAt.UTC().Format("20060102150405"), suffix)
	return path.Join(medicalDocumentNamespace, fmt.Sprint(requestID), name)
}

func (s *fileServiceImpl) UploadMedicalDocument(ctx context.Context, requestID int64, file io.Reader, uploadedAt time.Time) (string, error) {
	suffix := uuid.New().String()[:8]
	key := MedicalDocumentPath(requestID, uploadedAt, suffix)

	stored, err := s.storage.Upload(ctx, file, key, pdfContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload medical document: %w", err)
	}
	return stored, nil
}

func (s *fileServiceImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check file: %w", err)
	}
	if !exists {
		return nil, storage.ErrFileNotFound
	}

	rc, err := s.storage.Download(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, storage.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return rc, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	return s.storage.Delete(ctx, path)
}
