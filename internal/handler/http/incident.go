package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/incident"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
)

// multipartOverhead is the allowance for form boundaries and headers around the file part.
const multipartOverhead = 1 << 20

type IncidentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Respond(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	UploadDocument(w http.ResponseWriter, r *http.Request)
	DownloadDocument(w http.ResponseWriter, r *http.Request)
}

type incidentHandlerImpl struct {
	incidentService incident.IncidentService
	maxDocumentSize int64
}

func NewIncidentHandler(incidentService incident.IncidentService, maxDocumentSize int64) IncidentHandler {
	return &incidentHandlerImpl{
		incidentService: incidentService,
		maxDocumentSize: maxDocumentSize,
	}
}

func listQuery(r *http.Request) incident.ListQuery {
	q := r.URL.Query()
	return incident.ListQuery{
		Status:   q.Get("estado"),
		UserID:   q.Get("idUsuario"),
		Type:     q.Get("tipo"),
		DateFrom: q.Get("fechaDesde"),
		DateTo:   q.Get("fechaHasta"),
	}
}

// List handles GET /incidencias?estado&idUsuario&tipo&fechaDesde&fechaHasta
func (h *incidentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.incidentService.List(r.Context(), listQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: int64(len(requests))})
}

func (h *incidentHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.incidentService.ListPending(r.Context(), listQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: int64(len(requests))})
}

func (h *incidentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req incident.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.incidentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Incident request created", created)
}

func (h *incidentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.incidentService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *incidentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req incident.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	updated, err := h.incidentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Incident request updated", updated)
}

func (h *incidentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.incidentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *incidentHandlerImpl) respond(w http.ResponseWriter, r *http.Request) (incident.Response, error) {
	id, err := int64Param(r, "id")
	if err != nil {
		return incident.Response{}, err
	}

	var req incident.RespondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return incident.Response{}, err
	}
	req.ID = id

	return h.incidentService.Respond(r.Context(), req)
}

// Respond handles PUT /incidencias/{id}/responder
func (h *incidentHandlerImpl) Respond(w http.ResponseWriter, r *http.Request) {
	result, err := h.respond(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Incident request resolved", result)
}

// UpdateStatus handles PATCH /admin/incidencias/{id}/estado
func (h *incidentHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := h.respond(w, r); err != nil {
		h.respondError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *incidentHandlerImpl) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, errInvalidBody) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	response.HandleError(w, err)
}

// UploadDocument handles POST /incidencias/{id}/justificante (multipart field "file").
func (h *incidentHandlerImpl) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxDocumentSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 10); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, validator.New("file", "file must not exceed "+strconv.FormatInt(h.maxDocumentSize>>20, 10)+"MB"))
			return
		}
		logger.From(r.Context()).Warn("failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.HandleError(w, validator.New("file", "file is required"))
			return
		}
		logger.From(r.Context()).Warn("failed to read uploaded file", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.incidentService.AttachDocument(r.Context(), incident.AttachDocumentRequest{
		RequestID:   id,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		File:        file,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Medical justification uploaded", result)
}

// DownloadDocument handles GET /incidencias/{id}/justificante
func (h *incidentHandlerImpl) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	doc, err := h.incidentService.DownloadDocument(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer doc.Content.Close()

	if err := response.Stream(w, doc.Filename, doc.ContentType, doc.Content); err != nil {
		logger.From(r.Context()).Warn("document download interrupted", "incident_id", id, "error", err)
	}
}
