package http

import (
	"net/http"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/report"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	// Clock actions
	ClockIn(w http.ResponseWriter, r *http.Request)
	StartPause(w http.ResponseWriter, r *http.Request)
	EndPause(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)

	// CRUD
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Admin
	AdminList(w http.ResponseWriter, r *http.Request)
	AdminToday(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.ReportService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// StartPause implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartPause(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.StartPause(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pause started", result)
}

// EndPause implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndPause(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.EndPause(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pause ended", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ClockOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Today returns the caller's latest record of the day.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetMyToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func historyQuery(r *http.Request) attendance.HistoryQuery {
	q := r.URL.Query()
	return attendance.HistoryQuery{
		UserID:   q.Get("idUsuario"),
		DateFrom: q.Get("desde"),
		DateTo:   q.Get("hasta"),
	}
}

// History handles GET /fichajes/historial?idUsuario&desde&hasta
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.History(r.Context(), historyQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(len(records))})
}

// List is History exposed on the collection route.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	h.History(w, r)
}

func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance record created", record)
}

func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.UpdateRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	record, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated", record)
}

func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// AdminList handles GET /admin/fichajes?desde&hasta&idUsuario
func (h *attendanceHandlerImpl) AdminList(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.AdminRange(r.Context(), historyQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(len(records))})
}

// AdminToday handles GET /admin/fichajes/hoy
func (h *attendanceHandlerImpl) AdminToday(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(len(records))})
}

func (h *attendanceHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatPDF)
}

func (h *attendanceHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatXLSX)
}

func (h *attendanceHandlerImpl) export(w http.ResponseWriter, r *http.Request, format report.Format) {
	userID, err := int64Param(r, "idUsuario")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := r.URL.Query()
	file, err := h.reportService.AttendanceReport(r.Context(), report.AttendanceReportRequest{
		UserID:   userID,
		DateFrom: q.Get("desde"),
		DateTo:   q.Get("hasta"),
		Format:   format,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}
