package incident

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
)

const (
	MaxDescriptionLength = 2000
	MaxTypeLength        = 50
	PDFContentType       = "application/pdf"
)

type Response struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	CreatedAt     string        `json:"created_at"`
	Type          Type          `json:"type"`
	Description   string        `json:"description"`
	Status        Status        `json:"status"`
	AdminResponse *string       `json:"admin_response"`
	RespondedAt   *string       `json:"responded_at"`
	StartDate     *string       `json:"start_date"`
	EndDate       *string       `json:"end_date"`
	HasDocument   bool          `json:"has_document"`
	User          *user.Summary `json:"user,omitempty"`
}

func NewResponse(r Request) Response {
	resp := Response{
		ID:            r.ID,
		UserID:        r.UserID,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		Type:          r.Type,
		Description:   r.Description,
		Status:        r.Status,
		AdminResponse: r.AdminResponse,
		HasDocument:   r.HasDocument(),
		User:          r.User,
	}
	if r.RespondedAt != nil {
		s := r.RespondedAt.UTC().Format(time.RFC3339)
		resp.RespondedAt = &s
	}
	if r.StartDate != nil {
		s := r.StartDate.Format(validator.DateLayout)
		resp.StartDate = &s
	}
	if r.EndDate != nil {
		s := r.EndDate.Format(validator.DateLayout)
		resp.EndDate = &s
	}
	return resp
}

func NewResponses(requests []Request) []Response {
	out := make([]Response, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewResponse(r))
	}
	return out
}

// CreateRequest is the body of POST /incidencias. Status is accepted for
// compatibility and always ignored.
type CreateRequest struct {
	UserID      *int64  `json:"user_id,omitempty"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Status      string  `json:"status,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`

	ParsedStartDate *time.Time `json:"-"`
	ParsedEndDate   *time.Time `json:"-"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID != nil && *r.UserID <= 0 {
		errs.Add("user_id", "user_id must be a positive integer")
	}
	if !validator.MaxLength(strings.TrimSpace(r.Type), MaxTypeLength) {
		errs.Add("type", "type must be at most 50 characters")
	}
	if !validator.MaxLength(r.Description, MaxDescriptionLength) {
		errs.Add("description", "description must be at most 2000 characters")
	}

	var err error
	r.ParsedStartDate, r.ParsedEndDate, err = parseSpan(r.StartDate, r.EndDate)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	return errs.Err()
}

type UpdateRequest struct {
	ID          int64   `json:"-"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != nil && !validator.MaxLength(strings.TrimSpace(*r.Type), MaxTypeLength) {
		errs.Add("type", "type must be at most 50 characters")
	}
	if r.Description != nil && !validator.MaxLength(*r.Description, MaxDescriptionLength) {
		errs.Add("description", "description must be at most 2000 characters")
	}
	if _, _, err := parseSpan(r.StartDate, r.EndDate); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	return errs.Err()
}

// Apply merges the update into req, re-checking the date span on the result.
func (r *UpdateRequest) Apply(req Request) (Request, error) {
	if r.Type != nil {
		req.Type = NormalizeType(*r.Type)
	}
	if r.Description != nil {
		req.Description = strings.TrimSpace(*r.Description)
	}
	if r.StartDate != nil {
		req.StartDate = parseDateOrNil(*r.StartDate)
	}
	if r.EndDate != nil {
		req.EndDate = parseDateOrNil(*r.EndDate)
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return Request{}, validator.New("start_date", "start_date must not be after end_date")
	}
	return req, nil
}

type RespondRequest struct {
	ID       int64  `json:"-"`
	Response string `json:"response"`
	Status   string `json:"status"`

	ParsedStatus Status `json:"-"`
}

func (r *RespondRequest) Validate() error {
	var errs validator.ValidationErrors

	status, ok := ParseStatus(r.Status)
	switch {
	case validator.IsEmpty(r.Status):
		errs.Add("status", "status is required")
	case !ok:
		errs.Add("status", "status must be Aprobada, Rechazada or Resuelta")
	case !status.IsTerminal():
		errs.Add("status", "a response must approve, reject or resolve the request")
	default:
		r.ParsedStatus = status
	}

	if !validator.MaxLength(r.Response, MaxDescriptionLength) {
		errs.Add("response", "response must be at most 2000 characters")
	}

	return errs.Err()
}

// ListQuery carries raw query values (estado, idUsuario, tipo, fechaDesde, fechaHasta).
type ListQuery struct {
	Status   string
	UserID   string
	Type     string
	DateFrom string
	DateTo   string
}

func (q ListQuery) ToFilter() (Filter, error) {
	var errs validator.ValidationErrors
	filter := Filter{}

	if !validator.IsEmpty(q.Status) {
		status, ok := ParseStatus(q.Status)
		if !ok {
			errs.Add("estado", "unknown status")
		} else {
			filter.Status = &status
		}
	}

	if !validator.IsEmpty(q.UserID) {
		id, err := strconv.ParseInt(strings.TrimSpace(q.UserID), 10, 64)
		if err != nil || id <= 0 {
			errs.Add("idUsuario", "idUsuario must be a positive integer")
		} else {
			filter.UserID = &id
		}
	}

	if !validator.IsEmpty(q.Type) {
		t := string(NormalizeType(q.Type))
		filter.Type = &t
	}

	from, err := validator.ParseOptionalDate("fechaDesde", q.DateFrom)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	to, err := validator.ParseOptionalDate("fechaHasta", q.DateTo)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	filter.DateFrom = from
	filter.DateTo = to

	if err := errs.Err(); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

type AttachDocumentRequest struct {
	RequestID   int64
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// Validate checks the upload against the size ceiling and PDF constraints. sniffed
// is the content type detected from the first bytes of the file.
func (r *AttachDocumentRequest) Validate(maxSize int64, sniffed string) error {
	var errs validator.ValidationErrors

	if r.File == nil {
		errs.Add("file", "file is required")
		return errs.Err()
	}

	if r.Size > maxSize {
		errs.Add("file", "file must not exceed "+strconv.FormatInt(maxSize>>20, 10)+"MB")
	}

	if strings.ToLower(filepath.Ext(r.Filename)) != ".pdf" {
		errs.Add("file", "only PDF files are allowed")
	} else if ct := strings.ToLower(strings.TrimSpace(r.ContentType)); ct != "" && !strings.HasPrefix(ct, PDFContentType) && ct != "application/octet-stream" {
		errs.Add("file", "only PDF files are allowed")
	} else if sniffed != "" && !strings.HasPrefix(sniffed, PDFContentType) {
		errs.Add("file", "file content is not a PDF document")
	}

	return errs.Err()
}

func parseSpan(start, end *string) (*time.Time, *time.Time, error) {
	var errs validator.ValidationErrors
	var from, to *time.Time

	if start != nil && !validator.IsEmpty(*start) {
		if d, ok := validator.IsValidDate(strings.TrimSpace(*start)); ok {
			from = &d
		} else {
			errs.Add("start_date", "invalid date format, expected YYYY-MM-DD")
		}
	}
	if end != nil && !validator.IsEmpty(*end) {
		if d, ok := validator.IsValidDate(strings.TrimSpace(*end)); ok {
			to = &d
		} else {
			errs.Add("end_date", "invalid date format, expected YYYY-MM-DD")
		}
	}
	if from != nil && to != nil && from.After(*to) {
		errs.Add("start_date", "start_date must not be after end_date")
	}

	if err := errs.Err(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseDateOrNil(s string) *time.Time {
	d, ok := validator.IsValidDate(strings.TrimSpace(s))
	if !ok {
		return nil
	}
	return &d
}
