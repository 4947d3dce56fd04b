package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

// AttendanceJobs closes sessions left open past the auto-checkout deadline.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	publisher      sse.Publisher
	policy         policy.Config
	interval       time.Duration
	logger         *slog.Logger
	now            func() time.Time

	mu    sync.Mutex
	fired map[string]struct{}
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	publisher sse.Publisher,
	cfg policy.Config,
	interval time.Duration,
	logger *slog.Logger,
) *AttendanceJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		publisher:      publisher,
		policy:         cfg,
		interval:       interval,
		logger:         logger,
		now:            time.Now,
		fired:          make(map[string]struct{}),
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("attendance_auto_checkout", j.interval, j.AutoCheckout)
}

// AutoCheckout closes every open session whose deadline has passed. Each
// session is attempted once; a failed write clears the mark so the next tick
// retries it. Marks of sessions no longer open are dropped.
func (j *AttendanceJobs) AutoCheckout(ctx context.Context) error {
	sessions, err := j.attendanceRepo.ListOpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}
	j.pruneFired(sessions)

	now := j.now()
	var errs []error
	closed := 0

	for _, session := range sessions {
		deadline := policy.SessionDeadline(session.ClockIn, j.policy)
		if now.Before(deadline) {
			continue
		}
		if !j.markFired(session.ID) {
			continue
		}

		ok, err := j.closeSession(ctx, session, deadline)
		if err != nil {
			j.clearFired(session.ID)
			j.logger.Error("Cron: failed to auto-checkout attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			errs = append(errs, err)
			continue
		}
		if ok {
			closed++
		}
	}

	if closed > 0 {
		j.logger.Info("Cron: auto-checkout completed", "closed", closed)
	}
	return errors.Join(errs...)
}

func (j *AttendanceJobs) closeSession(ctx context.Context, session attendance.Attendance, deadline time.Time) (bool, error) {
	if err := session.CloseAtDeadline(deadline, j.policy); err != nil {
		return false, fmt.Errorf("failed to evaluate session %s: %w", session.ID, err)
	}
	eventName := sse.EventAttendanceClosed
	if session.AutoCheckout {
		eventName = sse.EventAttendanceAutoOut
	}

	ok, err := j.attendanceRepo.CloseOpenSession(ctx, session)
	if err != nil {
		return false, err
	}
	if !ok {
		// The employee checked out between the list and the write.
		return false, nil
	}

	if j.publisher != nil && session.EmployeeUserID != nil {
		j.publisher.Publish(*session.EmployeeUserID, sse.Event{
			Event: eventName,
			Data: map[string]interface{}{
				"attendance_id":   session.ID,
				"date":            session.Date.Format("2006-01-02"),
				"status":          session.Status,
				"clock_out":       deadline,
				"overtime_status": session.OvertimeStatus,
			},
		})
	}
	return true, nil
}

func (j *AttendanceJobs) markFired(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.fired[id]; ok {
		return false
	}
	j.fired[id] = struct{}{}
	return true
}

func (j *AttendanceJobs) pruneFired(open []attendance.Attendance) {
	ids := make(map[string]struct{}, len(open))
	for _, s := range open {
		ids[s.ID] = struct{}{}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for id := range j.fired {
		if _, ok := ids[id]; !ok {
			delete(j.fired, id)
		}
	}
}

func (j *AttendanceJobs) clearFired(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.fired, id)
}
