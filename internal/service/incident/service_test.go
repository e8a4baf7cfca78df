package incident

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/incident"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/storage"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIncidentRepository struct {
	requests map[int64]incident.Request
	nextID   int64
	clock    func() time.Time
}

func (m *memoryIncidentRepository) Create(_ context.Context, req incident.Request) (incident.Request, error) {
	m.nextID++
	req.ID = m.nextID
	req.CreatedAt = m.clock()
	m.requests[req.ID] = req
	return req, nil
}

func (m *memoryIncidentRepository) GetByID(_ context.Context, id int64) (incident.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return incident.Request{}, incident.ErrRequestNotFound
	}
	return req, nil
}

func (m *memoryIncidentRepository) Update(_ context.Context, req incident.Request) (incident.Request, error) {
	current, ok := m.requests[req.ID]
	if !ok {
		return incident.Request{}, incident.ErrRequestNotFound
	}
	req.DocumentPath = current.DocumentPath
	m.requests[req.ID] = req
	return req, nil
}

func (m *memoryIncidentRepository) UpdateDocument(_ context.Context, id int64, path string) error {
	req, ok := m.requests[id]
	if !ok {
		return incident.ErrRequestNotFound
	}
	req.DocumentPath = &path
	m.requests[id] = req
	return nil
}

func (m *memoryIncidentRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.requests[id]; !ok {
		return incident.ErrRequestNotFound
	}
	delete(m.requests, id)
	return nil
}

func (m *memoryIncidentRepository) List(_ context.Context, filter incident.Filter) ([]incident.Request, error) {
	out := make([]incident.Request, 0)
	for _, r := range m.requests {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Type != nil && !strings.EqualFold(string(r.Type), *filter.Type) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type stubUserRepository struct {
	user.UserRepository
}

func (stubUserRepository) GetByID(_ context.Context, id int64) (user.User, error) {
	if id > 3 {
		return user.User{}, user.ErrUserNotFound
	}
	return user.User{ID: id}, nil
}

// recordingFileService keeps uploads in memory and counts storage writes.
type recordingFileService struct {
	files   map[string][]byte
	uploads int
	deleted []string
}

func (r *recordingFileService) UploadMedicalDocument(_ context.Context, requestID int64, file io.Reader, uploadedAt time.Time) (string, error) {
	r.uploads++
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	key := "incidencias/" + uploadedAt.Format("150405.000000000") + ".pdf"
	r.files[key] = data
	return key, nil
}

func (r *recordingFileService) OpenFile(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := r.files[path]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (r *recordingFileService) DeleteFile(_ context.Context, path string) error {
	r.deleted = append(r.deleted, path)
	delete(r.files, path)
	return nil
}

type inlineTxManager struct{}

func (inlineTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const (
	adminID    int64 = 1
	employeeID int64 = 2
	otherID    int64 = 3
)

type fixture struct {
	svc   *IncidentServiceImpl
	repo  *memoryIncidentRepository
	files *recordingFileService
	now   time.Time
}

func newFixture() *fixture {
	f := &fixture{now: time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)}
	clock := func() time.Time {
		f.now = f.now.Add(time.Second)
		return f.now
	}
	f.repo = &memoryIncidentRepository{requests: map[int64]incident.Request{}, clock: clock}
	f.files = &recordingFileService{files: map[string][]byte{}}
	f.svc = &IncidentServiceImpl{
		IncidentRepository: f.repo,
		UserRepository:     stubUserRepository{},
		fileService:        f.files,
		txManager:          inlineTxManager{},
		maxDocumentSize:    DefaultMaxDocumentSize,
		now:                clock,
	}
	return f
}

func as(id int64, role user.Role) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: id, Role: role})
}

func employee() context.Context { return as(employeeID, user.RoleEmployee) }
func admin() context.Context    { return as(adminID, user.RoleAdmin) }

func ptr[T any](v T) *T { return &v }

func pdfBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "%PDF-1.4\n")
	return data
}

func TestIncidentService_CreateForcesPending(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(employee(), incident.CreateRequest{
		Type: "vacaciones", Description: " Semana santa ", Status: "Aprobada",
		StartDate: ptr("2025-04-14"), EndDate: ptr("2025-04-18"), UserID: ptr(otherID),
	})
	require.NoError(t, err)
	assert.Equal(t, incident.StatusPending, created.Status)
	assert.Equal(t, incident.TypeVacation, created.Type)
	assert.Equal(t, "Semana santa", created.Description)
	assert.Equal(t, employeeID, created.UserID, "employees always file for themselves")
	assert.Equal(t, "2025-04-14", *created.StartDate)

	forOther, err := f.svc.Create(admin(), incident.CreateRequest{Type: "Teletrabajo", UserID: ptr(otherID)})
	require.NoError(t, err)
	assert.Equal(t, otherID, forOther.UserID)
	assert.Equal(t, incident.Type("Teletrabajo"), forOther.Type)

	_, err = f.svc.Create(admin(), incident.CreateRequest{UserID: ptr(int64(42))})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	var verrs validator.ValidationErrors
	_, err = f.svc.Create(employee(), incident.CreateRequest{StartDate: ptr("2025-04-18"), EndDate: ptr("2025-04-14")})
	assert.ErrorAs(t, err, &verrs)
}

func TestIncidentService_OwnershipAndScoping(t *testing.T) {
	f := newFixture()

	mine, err := f.svc.Create(employee(), incident.CreateRequest{Type: "Incidencia"})
	require.NoError(t, err)
	theirs, err := f.svc.Create(as(otherID, user.RoleEmployee), incident.CreateRequest{Type: "Incidencia"})
	require.NoError(t, err)

	_, err = f.svc.Get(employee(), theirs.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = f.svc.Get(employee(), 99)
	assert.ErrorIs(t, err, incident.ErrRequestNotFound)
	_, err = f.svc.Get(admin(), theirs.ID)
	assert.NoError(t, err)

	list, err := f.svc.List(employee(), incident.ListQuery{UserID: "3"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	all, err := f.svc.List(admin(), incident.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, theirs.ID, all[0].ID, "newest first")

	assert.ErrorIs(t, f.svc.Delete(employee(), theirs.ID), auth.ErrForbidden)

	var verrs validator.ValidationErrors
	_, err = f.svc.List(admin(), incident.ListQuery{Status: "cerrada"})
	assert.ErrorAs(t, err, &verrs)
}

func TestIncidentService_RespondStateMachine(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(employee(), incident.CreateRequest{Type: "AsuntosPropios"})
	require.NoError(t, err)

	_, err = f.svc.Respond(employee(), incident.RespondRequest{ID: created.ID, Status: "Aprobada"})
	assert.ErrorIs(t, err, auth.ErrAdminRequired)

	var verrs validator.ValidationErrors
	_, err = f.svc.Respond(admin(), incident.RespondRequest{ID: created.ID, Status: "Pendiente"})
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.Respond(admin(), incident.RespondRequest{ID: 99, Status: "Aprobada"})
	assert.ErrorIs(t, err, incident.ErrRequestNotFound)

	resolved, err := f.svc.Respond(admin(), incident.RespondRequest{ID: created.ID, Status: "approved", Response: "Disfruta"})
	require.NoError(t, err)
	assert.Equal(t, incident.StatusApproved, resolved.Status)
	assert.Equal(t, "Disfruta", *resolved.AdminResponse)
	assert.NotNil(t, resolved.RespondedAt)

	_, err = f.svc.Respond(admin(), incident.RespondRequest{ID: created.ID, Status: "Rechazada"})
	assert.ErrorIs(t, err, incident.ErrAlreadyResolved)

	pending, err := f.svc.ListPending(employee(), incident.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.Update(employee(), incident.UpdateRequest{ID: created.ID, Description: ptr("cambio")})
	assert.ErrorIs(t, err, incident.ErrAlreadyResolved)
	assert.ErrorIs(t, f.svc.Delete(employee(), created.ID), incident.ErrAlreadyResolved)

	edited, err := f.svc.Update(admin(), incident.UpdateRequest{ID: created.ID, Description: ptr("nota admin")})
	require.NoError(t, err)
	assert.Equal(t, "nota admin", edited.Description)
	assert.Equal(t, incident.StatusApproved, edited.Status)

	require.NoError(t, f.svc.Delete(admin(), created.ID))
}

func TestIncidentService_UpdatePending(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(employee(), incident.CreateRequest{Type: "Vacaciones", StartDate: ptr("2025-08-01"), EndDate: ptr("2025-08-15")})
	require.NoError(t, err)

	updated, err := f.svc.Update(employee(), incident.UpdateRequest{ID: created.ID, EndDate: ptr("2025-08-10"), Type: ptr("vacation")})
	require.NoError(t, err)
	assert.Equal(t, "2025-08-10", *updated.EndDate)
	assert.Equal(t, incident.StatusPending, updated.Status)

	var verrs validator.ValidationErrors
	_, err = f.svc.Update(employee(), incident.UpdateRequest{ID: created.ID, StartDate: ptr("2025-08-20")})
	assert.ErrorAs(t, err, &verrs)
}

func TestIncidentService_AttachDocument(t *testing.T) {
	f := newFixture()
	sick, err := f.svc.Create(employee(), incident.CreateRequest{Type: "BajaMedica"})
	require.NoError(t, err)
	other, err := f.svc.Create(employee(), incident.CreateRequest{Type: "Incidencia"})
	require.NoError(t, err)

	content := pdfBytes(2048)
	attach := func(ctx context.Context, id int64, name, contentType string, data []byte) (incident.Response, error) {
		return f.svc.AttachDocument(ctx, incident.AttachDocumentRequest{
			RequestID: id, Filename: name, ContentType: contentType, Size: int64(len(data)), File: bytes.NewReader(data),
		})
	}

	resp, err := attach(employee(), sick.ID, "parte.pdf", "application/pdf", content)
	require.NoError(t, err)
	assert.True(t, resp.HasDocument)
	assert.Equal(t, 1, f.files.uploads)

	doc, err := f.svc.DownloadDocument(employee(), sick.ID)
	require.NoError(t, err)
	defer doc.Content.Close()
	got, err := io.ReadAll(doc.Content)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, incident.PDFContentType, doc.ContentType)

	// Replacing the document removes the previous file.
	first := *f.repo.requests[sick.ID].DocumentPath
	_, err = attach(admin(), sick.ID, "nuevo.PDF", "application/pdf", content)
	require.NoError(t, err)
	assert.Contains(t, f.files.deleted, first)

	var verrs validator.ValidationErrors
	_, err = attach(employee(), other.ID, "parte.pdf", "application/pdf", content)
	assert.ErrorAs(t, err, &verrs, "only medical leave accepts a justification")

	_, err = attach(employee(), sick.ID, "parte.docx", "application/pdf", content)
	assert.ErrorAs(t, err, &verrs)

	_, err = attach(employee(), sick.ID, "fake.pdf", "application/pdf", []byte("just some text pretending"))
	assert.ErrorAs(t, err, &verrs)

	_, err = attach(as(otherID, user.RoleEmployee), sick.ID, "parte.pdf", "application/pdf", content)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	assert.Equal(t, 2, f.files.uploads, "rejected uploads never reach storage")
}

func TestIncidentService_AttachDocumentTooLarge(t *testing.T) {
	f := newFixture()
	sick, err := f.svc.Create(employee(), incident.CreateRequest{Type: "BajaMedica"})
	require.NoError(t, err)

	data := pdfBytes(12 << 20)

	var verrs validator.ValidationErrors
	_, err = f.svc.AttachDocument(employee(), incident.AttachDocumentRequest{
		RequestID: sick.ID, Filename: "parte.pdf", ContentType: "application/pdf", Size: int64(len(data)), File: bytes.NewReader(data),
	})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "file")

	// A lying size header is caught by the bounded read.
	_, err = f.svc.AttachDocument(employee(), incident.AttachDocumentRequest{
		RequestID: sick.ID, Filename: "parte.pdf", ContentType: "application/pdf", Size: 10, File: bytes.NewReader(data),
	})
	require.ErrorAs(t, err, &verrs)

	assert.Zero(t, f.files.uploads)
	storedReq := f.repo.requests[sick.ID]
	assert.False(t, storedReq.HasDocument())
}

func TestIncidentService_DownloadMissing(t *testing.T) {
	f := newFixture()
	sick, err := f.svc.Create(employee(), incident.CreateRequest{Type: "BajaMedica"})
	require.NoError(t, err)

	_, err = f.svc.DownloadDocument(employee(), sick.ID)
	assert.ErrorIs(t, err, incident.ErrDocumentNotFound)

	require.NoError(t, f.repo.UpdateDocument(context.Background(), sick.ID, "incidencias/gone.pdf"))
	_, err = f.svc.DownloadDocument(employee(), sick.ID)
	assert.ErrorIs(t, err, incident.ErrDocumentNotFound)
}

func TestIncidentService_DeleteRemovesDocument(t *testing.T) {
	f := newFixture()
	sick, err := f.svc.Create(employee(), incident.CreateRequest{Type: "BajaMedica"})
	require.NoError(t, err)

	data := pdfBytes(1024)
	_, err = f.svc.AttachDocument(employee(), incident.AttachDocumentRequest{
		RequestID: sick.ID, Filename: "parte.pdf", Size: int64(len(data)), File: bytes.NewReader(data),
	})
	require.NoError(t, err)
	stored := *f.repo.requests[sick.ID].DocumentPath

	require.NoError(t, f.svc.Delete(employee(), sick.ID))
	assert.Contains(t, f.files.deleted, stored)
	_, err = f.svc.Get(admin(), sick.ID)
	assert.ErrorIs(t, err, incident.ErrRequestNotFound)
}
