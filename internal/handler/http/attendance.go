package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const keepAliveInterval = 30 * time.Second

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	TimerStream(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ApproveOvertime(w http.ResponseWriter, r *http.Request)
	RejectOvertime(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Subscriber is the receive side of the event hub.
type Subscriber interface {
	Subscribe(userID string) (<-chan sse.Event, func())
	SubscriberCount(userID string) int
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	events            Subscriber
	tick              time.Duration
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, events Subscriber, tick time.Duration) AttendanceHandler {
	if tick <= 0 {
		tick = time.Second
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		events:            events,
		tick:              tick,
	}
}

// decodeOptional decodes a JSON body that may be absent.
func decodeOptional(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockInRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("ClockIn decode error", "error", err)
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

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockOutRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func startStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming unsupported")
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return flusher, true
}

// TimerStream implements AttendanceHandler. It sends one countdown per tick
// until the client leaves or the session is closed. Other hub events for the
// caller are forwarded as they arrive.
func (h *attendanceHandlerImpl) TimerStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	snap, err := h.attendanceService.Timer(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	events, unsubscribe := h.events.Subscribe(claims.UserID)
	defer unsubscribe()

	flusher, ok := startStream(w)
	if !ok {
		return
	}

	send := func(ev sse.Event) bool {
		if _, err := ev.WriteTo(w); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	if !send(sse.Event{Event: sse.EventTimerTick, Data: attendance.NewTimerResponse(snap)}) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !send(ev) {
				return
			}
			if ev.Event == sse.EventAttendanceClosed || ev.Event == sse.EventAttendanceAutoOut {
				return
			}
		case <-ticker.C:
			snap, err := h.attendanceService.Timer(ctx)
			if errors.Is(err, attendance.ErrNotCheckedIn) {
				return
			}
			if err != nil {
				slog.Error("Timer stream error", "error", err)
				return
			}
			if !send(sse.Event{Event: sse.EventTimerTick, Data: attendance.NewTimerResponse(snap)}) {
				return
			}
		}
	}
}

// Events implements AttendanceHandler. It forwards every hub event for the
// caller and writes a comment line periodically to keep proxies open.
func (h *attendanceHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	events, unsubscribe := h.events.Subscribe(claims.UserID)
	defer unsubscribe()
	slog.Debug("Event stream opened", "user_id", claims.UserID, "streams", h.events.SubscriberCount(claims.UserID))

	flusher, ok := startStream(w)
	if !ok {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, err := ev.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		EmployeeID:     optionalQuery(r, "employee_id"),
		EmployeeName:   optionalQuery(r, "employee_name"),
		Date:           optionalQuery(r, "date"),
		StartDate:      optionalQuery(r, "start_date"),
		EndDate:        optionalQuery(r, "end_date"),
		Status:         optionalQuery(r, "status"),
		OvertimeStatus: optionalQuery(r, "overtime_status"),
		Page:           intQuery(r, "page", 1),
		Limit:          intQuery(r, "limit", 20),
		SortBy:         r.URL.Query().Get("sort_by"),
		SortOrder:      r.URL.Query().Get("sort_order"),
	}

	results, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendance.MyAttendanceFilter{
		Date:      optionalQuery(r, "date"),
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Status:    optionalQuery(r, "status"),
		Page:      intQuery(r, "page", 1),
		Limit:     intQuery(r, "limit", 20),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	results, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Summary implements AttendanceHandler. Year and month default to the
// current month.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	req := attendance.SummaryRequest{
		EmployeeID: optionalQuery(r, "employee_id"),
		Year:       intQuery(r, "year", now.Year()),
		Month:      intQuery(r, "month", int(now.Month())),
	}

	result, err := h.attendanceService.GetMonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := attendance.ExportRequest{
		EmployeeID: optionalQuery(r, "employee_id"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
		Format:     r.URL.Query().Get("format"),
	}

	file, err := h.attendanceService.ExportAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ApproveOvertime implements AttendanceHandler.
func (h *attendanceHandlerImpl) ApproveOvertime(w http.ResponseWriter, r *http.Request) {
	var req attendance.ApproveOvertimeRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.ApproveOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime approved successfully", result)
}

// RejectOvertime implements AttendanceHandler.
func (h *attendanceHandlerImpl) RejectOvertime(w http.ResponseWriter, r *http.Request) {
	var req attendance.RejectOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.RejectOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rejected successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteAttendance(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
