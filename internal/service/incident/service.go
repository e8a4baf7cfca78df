package incident

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/incident"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/storage"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
	"github.com/controlfichajes/fichajes-backend-go/internal/service/file"
)

const DefaultMaxDocumentSize int64 = 10 << 20

type IncidentServiceImpl struct {
	incident.IncidentRepository
	user.UserRepository
	fileService     file.FileService
	txManager       database.TxManager
	maxDocumentSize int64
	now             func() time.Time
}

func NewIncidentService(
	txManager database.TxManager,
	incidentRepository incident.IncidentRepository,
	userRepository user.UserRepository,
	fileService file.FileService,
	maxDocumentSize int64,
) incident.IncidentService {
	if maxDocumentSize <= 0 {
		maxDocumentSize = DefaultMaxDocumentSize
	}
	return &IncidentServiceImpl{
		IncidentRepository: incidentRepository,
		UserRepository:     userRepository,
		fileService:        fileService,
		txManager:          txManager,
		maxDocumentSize:    maxDocumentSize,
		now:                time.Now,
	}
}

// Create implements incident.IncidentService. Requests always start Pending.
func (s *IncidentServiceImpl) Create(ctx context.Context, req incident.CreateRequest) (incident.Response, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return incident.Response{}, err
	}
	if err := req.Validate(); err != nil {
		return incident.Response{}, err
	}

	ownerID := caller.UserID
	if caller.IsAdmin() && req.UserID != nil {
		if _, err := s.UserRepository.GetByID(ctx, *req.UserID); err != nil {
			return incident.Response{}, err
		}
		ownerID = *req.UserID
	}

	created, err := s.IncidentRepository.Create(ctx, incident.Request{
		UserID:      ownerID,
		Type:        incident.NormalizeType(req.Type),
		Description: strings.TrimSpace(req.Description),
		Status:      incident.StatusPending,
		StartDate:   req.ParsedStartDate,
		EndDate:     req.ParsedEndDate,
	})
	if err != nil {
		return incident.Response{}, err
	}

	logger.From(ctx).Info("incident request created", "request_id", created.ID, "owner_id", ownerID, "type", created.Type)
	return incident.NewResponse(created), nil
}

// Get implements incident.IncidentService.
func (s *IncidentServiceImpl) Get(ctx context.Context, id int64) (incident.Response, error) {
	_, req, err := s.loadOwned(ctx, id)
	if err != nil {
		return incident.Response{}, err
	}
	return incident.NewResponse(req), nil
}

// Update implements incident.IncidentService. Owners may only edit while the request
// is pending; the status itself never changes here.
func (s *IncidentServiceImpl) Update(ctx context.Context, req incident.UpdateRequest) (incident.Response, error) {
	if err := req.Validate(); err != nil {
		return incident.Response{}, err
	}

	var updated incident.Request
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		caller, current, err := s.loadOwned(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() && current.Status.IsTerminal() {
			return incident.ErrAlreadyResolved
		}

		next, err := req.Apply(current)
		if err != nil {
			return err
		}
		updated, err = s.IncidentRepository.Update(txCtx, next)
		return err
	})
	if err != nil {
		return incident.Response{}, err
	}
	return incident.NewResponse(updated), nil
}

// Delete implements incident.IncidentService. The stored document is removed best-effort.
func (s *IncidentServiceImpl) Delete(ctx context.Context, id int64) error {
	caller, req, err := s.loadOwned(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && req.Status.IsTerminal() {
		return incident.ErrAlreadyResolved
	}

	if err := s.IncidentRepository.Delete(ctx, id); err != nil {
		return err
	}
	if req.HasDocument() {
		if err := s.fileService.DeleteFile(ctx, *req.DocumentPath); err != nil {
			logger.From(ctx).Warn("failed to delete medical document", "request_id", id, "error", err)
		}
	}

	logger.From(ctx).Info("incident request deleted", "request_id", id, "by", caller.UserID)
	return nil
}

// Respond implements incident.IncidentService.
func (s *IncidentServiceImpl) Respond(ctx context.Context, req incident.RespondRequest) (incident.Response, error) {
	caller, err := auth.RequireAdmin(ctx)
	if err != nil {
		return incident.Response{}, err
	}
	if err := req.Validate(); err != nil {
		return incident.Response{}, err
	}

	var updated incident.Request
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.IncidentRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !current.IsPending() {
			return incident.ErrAlreadyResolved
		}

		respondedAt := s.now().UTC()
		current.Status = req.ParsedStatus
		current.RespondedAt = &respondedAt
		current.AdminResponse = nil
		if text := strings.TrimSpace(req.Response); text != "" {
			current.AdminResponse = &text
		}

		updated, err = s.IncidentRepository.Update(txCtx, current)
		return err
	})
	if err != nil {
		return incident.Response{}, err
	}

	logger.From(ctx).Info("incident request resolved", "request_id", updated.ID, "status", updated.Status, "by", caller.UserID)
	return incident.NewResponse(updated), nil
}

// List implements incident.IncidentService. Employees are scoped to their own requests.
func (s *IncidentServiceImpl) List(ctx context.Context, query incident.ListQuery) ([]incident.Response, error) {
	filter, err := s.scopedFilter(ctx, query)
	if err != nil {
		return nil, err
	}

	requests, err := s.IncidentRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return incident.NewResponses(requests), nil
}

// ListPending implements incident.IncidentService.
func (s *IncidentServiceImpl) ListPending(ctx context.Context, query incident.ListQuery) ([]incident.Response, error) {
	filter, err := s.scopedFilter(ctx, query)
	if err != nil {
		return nil, err
	}
	pending := incident.StatusPending
	filter.Status = &pending

	requests, err := s.IncidentRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return incident.NewResponses(requests), nil
}

func (s *IncidentServiceImpl) scopedFilter(ctx context.Context, query incident.ListQuery) (incident.Filter, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return incident.Filter{}, err
	}
	filter, err := query.ToFilter()
	if err != nil {
		return incident.Filter{}, err
	}
	if !caller.IsAdmin() {
		filter.UserID = &caller.UserID
	}
	return filter, nil
}

// AttachDocument implements incident.IncidentService. The upload is read into memory up
// to the size ceiling and fully validated before anything reaches storage.
func (s *IncidentServiceImpl) AttachDocument(ctx context.Context, req incident.AttachDocumentRequest) (incident.Response, error) {
	_, current, err := s.loadOwned(ctx, req.RequestID)
	if err != nil {
		return incident.Response{}, err
	}
	if current.Type != incident.TypeMedicalLeave {
		return incident.Response{}, validator.New("type", "medical justifications can only be attached to BajaMedica requests")
	}

	if req.Size > s.maxDocumentSize {
		return incident.Response{}, req.Validate(s.maxDocumentSize, "")
	}

	var content bytes.Buffer
	sniffed := ""
	if req.File != nil {
		n, err := io.CopyN(&content, req.File, s.maxDocumentSize+1)
		if err != nil && !errors.Is(err, io.EOF) {
			return incident.Response{}, fmt.Errorf("failed to read upload: %w", err)
		}
		if n > req.Size {
			req.Size = n
		}
		sniffed = http.DetectContentType(content.Bytes())
	}
	if err := req.Validate(s.maxDocumentSize, sniffed); err != nil {
		return incident.Response{}, err
	}

	stored, err := s.fileService.UploadMedicalDocument(ctx, current.ID, bytes.NewReader(content.Bytes()), s.now())
	if err != nil {
		return incident.Response{}, err
	}

	if err := s.IncidentRepository.UpdateDocument(ctx, current.ID, stored); err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored); delErr != nil {
			logger.From(ctx).Warn("failed to remove orphaned document", "path", stored, "error", delErr)
		}
		return incident.Response{}, err
	}

	if current.HasDocument() && *current.DocumentPath != stored {
		if err := s.fileService.DeleteFile(ctx, *current.DocumentPath); err != nil {
			logger.From(ctx).Warn("failed to delete previous document", "request_id", current.ID, "error", err)
		}
	}

	current.DocumentPath = &stored
	logger.From(ctx).Info("medical document attached", "request_id", current.ID, "size", req.Size)
	return incident.NewResponse(current), nil
}

// DownloadDocument implements incident.IncidentService.
func (s *IncidentServiceImpl) DownloadDocument(ctx context.Context, id int64) (incident.Document, error) {
	_, current, err := s.loadOwned(ctx, id)
	if err != nil {
		return incident.Document{}, err
	}
	if !current.HasDocument() {
		return incident.Document{}, incident.ErrDocumentNotFound
	}

	rc, err := s.fileService.OpenFile(ctx, *current.DocumentPath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return incident.Document{}, incident.ErrDocumentNotFound
		}
		return incident.Document{}, err
	}

	return incident.Document{
		Filename:    path.Base(*current.DocumentPath),
		ContentType: incident.PDFContentType,
		Content:     rc,
	}, nil
}

func (s *IncidentServiceImpl) loadOwned(ctx context.Context, id int64) (auth.Identity, incident.Request, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return auth.Identity{}, incident.Request{}, err
	}
	req, err := s.IncidentRepository.GetByID(ctx, id)
	if err != nil {
		return auth.Identity{}, incident.Request{}, err
	}
	if !caller.CanAccess(req.UserID) {
		return auth.Identity{}, incident.Request{}, auth.ErrForbidden
	}
	return caller, req, nil
}
