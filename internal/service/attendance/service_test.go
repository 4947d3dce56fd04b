package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Office position used for check-in.
var (
	officeLat = -6.2000
	officeLng = 106.8166
)

func clockInAt(t *testing.T, h *harness, when time.Time) attendance.AttendanceResponse {
	t.Helper()
	h.now = when
	resp, err := h.svc.ClockIn(employeeCtx(t), attendance.ClockInRequest{
		Latitude:  f64(officeLat),
		Longitude: f64(officeLng),
		Accuracy:  f64(12),
	})
	require.NoError(t, err)
	return resp
}

func TestClockIn_OnTime(t *testing.T) {
	h := newHarness(at(10, 8, 55))

	resp := clockInAt(t, h, at(10, 8, 55))

	parsed, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, string(policy.StatusInProgress), resp.Status)
	assert.False(t, resp.IsLate)
	assert.Equal(t, string(policy.DayTypeWeekday), resp.DayType)
	assert.Equal(t, "Rina Wijaya", *resp.EmployeeName)
}

func TestClockIn_LateCutoffIsInclusive(t *testing.T) {
	h := newHarness(at(10, 9, 15))

	resp := clockInAt(t, h, at(10, 9, 15))
	assert.True(t, resp.IsLate)
}

func TestClockIn_Twice(t *testing.T) {
	h := newHarness(at(10, 9, 0))
	clockInAt(t, h, at(10, 9, 0))

	h.now = at(10, 10, 0)
	_, err := h.svc.ClockIn(employeeCtx(t), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// A session opened after Monday's deadline runs until Tuesday 22:00.
	h = newHarness(at(10, 22, 30))
	clockInAt(t, h, at(10, 22, 30))

	h.now = at(11, 9, 0)
	_, err = h.svc.ClockIn(employeeCtx(t), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrOpenSessionExists)
}

func TestClockIn_ClosesSessionPastDeadline(t *testing.T) {
	h := newHarness(at(10, 9, 0))
	monday := clockInAt(t, h, at(10, 9, 0))

	tuesday := clockInAt(t, h, at(11, 8, 55))
	assert.Equal(t, "2025-03-11", tuesday.Date)

	stored := h.repo.records[monday.ID]
	require.NotNil(t, stored.ClockOut)
	assert.True(t, at(10, 22, 0).Equal(*stored.ClockOut))
	assert.True(t, stored.AutoCheckout)
	assert.Equal(t, attendance.OvertimePending, stored.OvertimeStatus)
	require.Len(t, h.pub.events, 1)
	assert.Equal(t, sse.EventAttendanceAutoOut, h.pub.events[0].Event)
}

func TestClockIn_RequiresEmployee(t *testing.T) {
	h := newHarness(at(10, 9, 0))

	_, err := h.svc.ClockIn(managerCtx(t), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrEmployeeRequired)
}

func TestClockIn_InvalidCoordinates(t *testing.T) {
	h := newHarness(at(10, 9, 0))

	_, err := h.svc.ClockIn(employeeCtx(t), attendance.ClockInRequest{Latitude: f64(91)})
	assert.Error(t, err)
	assert.Empty(t, h.repo.records)
}

func TestClockOut_Classification(t *testing.T) {
	tests := []struct {
		name       string
		in, out    time.Time
		status     policy.Status
		countable  bool
		credit     decimal.Decimal
		extraHours float64
	}{
		{"full day", at(10, 9, 0), at(10, 18, 0), policy.StatusPresent, false, decimal.NewFromInt(1), 0},
		{"late but short", at(10, 9, 20), at(10, 17, 0), policy.StatusLate, true, decimal.NewFromInt(1), 0},
		{"late waived", at(10, 9, 30), at(10, 18, 45), policy.StatusPresentLateWaived, false, decimal.NewFromInt(1), 0.25},
		{"half day", at(10, 9, 0), at(10, 14, 0), policy.StatusHalfDay, false, decimal.NewFromFloat(0.5), 0},
		{"absent", at(10, 9, 0), at(10, 12, 0), policy.StatusAbsent, false, decimal.Zero, 0},
		{"extra", at(10, 8, 0), at(10, 19, 0), policy.StatusPresent, false, decimal.NewFromInt(1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.in)
			clockInAt(t, h, tt.in)

			h.now = tt.out
			resp, err := h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{
				Latitude:  f64(officeLat),
				Longitude: f64(officeLng),
			})
			require.NoError(t, err)

			assert.Equal(t, string(tt.status), resp.Status)
			assert.Equal(t, tt.countable, resp.LateCountable)
			assert.True(t, tt.credit.Equal(resp.DayCredit), "credit %s", resp.DayCredit)
			assert.InDelta(t, tt.extraHours, resp.ExtraWorkedHours, 1e-9)
			require.NotNil(t, resp.DurationMs)
			assert.Equal(t, tt.out.Sub(tt.in).Milliseconds(), *resp.DurationMs)
			assert.Equal(t, 0.0, *resp.CheckoutDistanceMeters)
		})
	}
}

func TestClockOut_NotifiesEmployee(t *testing.T) {
	h := newHarness(at(10, 9, 0))
	clockInAt(t, h, at(10, 9, 0))

	h.now = at(10, 18, 0)
	_, err := h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{Latitude: f64(officeLat), Longitude: f64(officeLng)})
	require.NoError(t, err)

	require.Len(t, h.pub.events, 1)
	assert.Equal(t, userID, h.pub.events[0].UserID)
	assert.Equal(t, sse.EventAttendanceClosed, h.pub.events[0].Event)
}

func TestClockOut_AfterDeadlineIsSystemCheckout(t *testing.T) {
	h := newHarness(at(10, 9, 0))
	opened := clockInAt(t, h, at(10, 9, 0))

	// The employee checks out the next morning before the job has run.
	h.now = at(11, 9, 0)
	resp, err := h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{Latitude: f64(officeLat), Longitude: f64(officeLng)})
	require.NoError(t, err)

	assert.True(t, resp.AutoCheckout)
	assert.Equal(t, string(policy.StatusPresent), resp.Status)
	assert.Equal(t, string(attendance.OvertimePending), resp.OvertimeStatus)
	assert.InDelta(t, 4.0, resp.ExtraWorkedHours, 1e-9)

	stored := h.repo.records[opened.ID]
	require.NotNil(t, stored.ClockOut)
	assert.True(t, at(10, 22, 0).Equal(*stored.ClockOut))
	assert.Nil(t, stored.ClockOutLatitude)
	assert.False(t, stored.OvertimeCounts())

	require.Len(t, h.pub.events, 1)
	assert.Equal(t, sse.EventAttendanceAutoOut, h.pub.events[0].Event)

	summary, err := h.svc.GetMonthlySummary(employeeCtx(t), attendance.SummaryRequest{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Zero(t, summary.ExtraHours)
	assert.InDelta(t, 4.0, summary.PendingOvertimeHours, 1e-9)

	_, err = h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{Latitude: f64(officeLat), Longitude: f64(officeLng)})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestClockOut_AfterDeadlineWithAutoCheckoutDisabled(t *testing.T) {
	h := newHarness(at(10, 9, 0))
	h.svc.policy.AutoCheckoutEnabled = false
	clockInAt(t, h, at(10, 9, 0))

	h.now = at(10, 22, 0)
	resp, err := h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{Latitude: f64(officeLat), Longitude: f64(officeLng)})
	require.NoError(t, err)

	assert.Equal(t, string(policy.StatusAbsent), resp.Status)
	assert.False(t, resp.AutoCheckout)
	assert.Equal(t, string(attendance.OvertimeNone), resp.OvertimeStatus)
	assert.True(t, resp.DayCredit.IsZero())
	require.Len(t, h.pub.events, 1)
	assert.Equal(t, sse.EventAttendanceClosed, h.pub.events[0].Event)
}

func TestClockOut_LocationRules(t *testing.T) {
	farLat := officeLat + 0.01 // about 1.1 km north

	tests := []struct {
		name    string
		req     attendance.ClockOutRequest
		wantErr error
	}{
		{"no coordinates no note", attendance.ClockOutRequest{}, attendance.ErrLocationRequired},
		{"no coordinates blank note", attendance.ClockOutRequest{LocationNote: str("   ")}, attendance.ErrLocationRequired},
		{"no coordinates with note", attendance.ClockOutRequest{LocationNote: str("GPS blocked in basement")}, nil},
		{"far without note", attendance.ClockOutRequest{Latitude: f64(farLat), Longitude: f64(officeLng)}, attendance.ErrLocationExplanationRequired},
		{"far with note", attendance.ClockOutRequest{Latitude: f64(farLat), Longitude: f64(officeLng), LocationNote: str("Client visit")}, nil},
		{"within limit", attendance.ClockOutRequest{Latitude: f64(officeLat + 0.004), Longitude: f64(officeLng)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(at(10, 9, 0))
			clockInAt(t, h, at(10, 9, 0))

			h.now = at(10, 18, 0)
			resp, err := h.svc.ClockOut(employeeCtx(t), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				open, _ := h.repo.GetOpenSession(employeeCtx(t), employeeID, companyID)
				assert.NotNil(t, open, "session must stay open")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(policy.StatusPresent), resp.Status)
		})
	}
}

func TestClockOut_RecordsDistance(t *testing.T) {
	h := newHarness(at(10, 9, 0))
	clockInAt(t, h, at(10, 9, 0))

	h.now = at(10, 18, 0)
	resp, err := h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{
		Latitude:     f64(officeLat + 0.01),
		Longitude:    f64(officeLng),
		LocationNote: str("Client visit"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.CheckoutDistanceMeters)
	assert.InDelta(t, 1112, *resp.CheckoutDistanceMeters, 5)
	assert.Equal(t, "Client visit", *resp.LocationNote)
}

func TestClockOut_WithoutSession(t *testing.T) {
	h := newHarness(at(10, 18, 0))

	_, err := h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{LocationNote: str("x")})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d1", employeeID, at(10, 9, 0), at(10, 17, 0))
	_, err = h.svc.ClockOut(employeeCtx(t), attendance.ClockOutRequest{LocationNote: str("x")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestGetToday(t *testing.T) {
	h := newHarness(at(10, 8, 0))

	today, err := h.svc.GetToday(employeeCtx(t))
	require.NoError(t, err)
	assert.True(t, today.CanClockIn)
	assert.Nil(t, today.Timer)

	clockInAt(t, h, at(10, 9, 0))
	h.now = at(10, 13, 0)

	today, err = h.svc.GetToday(employeeCtx(t))
	require.NoError(t, err)
	assert.True(t, today.HasCheckedIn)
	assert.True(t, today.CanClockOut)
	assert.False(t, today.CanClockIn)
	require.NotNil(t, today.Timer)
	assert.Equal(t, "04:00:00", today.Timer.Elapsed)
	assert.Equal(t, "04:00:00", today.Timer.Display)
	assert.InDelta(t, 50.0, today.Timer.Progress, 1e-9)
}

func TestTimer(t *testing.T) {
	h := newHarness(at(10, 9, 0))

	_, err := h.svc.Timer(employeeCtx(t))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	clockInAt(t, h, at(10, 9, 0))
	h.now = at(10, 17, 30)

	snap, err := h.svc.Timer(employeeCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, snap.Overtime)
}

func TestGetAttendance_EmployeeCannotReadOthers(t *testing.T) {
	h := newHarness(at(12, 9, 0))
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d2", otherEmpID, at(10, 9, 0), at(10, 18, 0))

	_, err := h.svc.GetAttendance(employeeCtx(t), "0192f1a0-0000-7000-8000-0000000000d2")
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	resp, err := h.svc.GetAttendance(managerCtx(t), "0192f1a0-0000-7000-8000-0000000000d2")
	require.NoError(t, err)
	assert.Equal(t, otherEmpID, resp.EmployeeID)
}

func TestListAttendance_RequiresManager(t *testing.T) {
	h := newHarness(at(12, 9, 0))
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d1", employeeID, at(10, 9, 0), at(10, 18, 0))
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d2", otherEmpID, at(10, 9, 0), at(10, 18, 0))

	_, err := h.svc.ListAttendance(employeeCtx(t), attendance.AttendanceFilter{})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	list, err := h.svc.ListAttendance(managerCtx(t), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, "1-2 of 2 results", list.Showing)

	mine, err := h.svc.GetMyAttendance(employeeCtx(t), attendance.MyAttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, mine.Attendances, 1)
}

func TestUpdateAttendance(t *testing.T) {
	const id = "0192f1a0-0000-7000-8000-0000000000d1"

	t.Run("employee cannot override", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		h.closedLog(t, id, employeeID, at(10, 9, 20), at(10, 17, 0))

		_, err := h.svc.UpdateAttendance(employeeCtx(t), attendance.UpdateAttendanceRequest{ID: id, Status: str("present"), Reason: "x"})
		assert.ErrorIs(t, err, attendance.ErrUnauthorized)
	})

	t.Run("reason required", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		h.closedLog(t, id, employeeID, at(10, 9, 20), at(10, 17, 0))

		_, err := h.svc.UpdateAttendance(managerCtx(t), attendance.UpdateAttendanceRequest{ID: id, Status: str("present")})
		assert.ErrorIs(t, err, attendance.ErrOverrideReasonRequired)
	})

	t.Run("new times are re-evaluated", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		h.closedLog(t, id, employeeID, at(10, 9, 20), at(10, 17, 0))

		resp, err := h.svc.UpdateAttendance(managerCtx(t), attendance.UpdateAttendanceRequest{
			ID:          id,
			ClockInTime: str(at(10, 9, 0).Format(time.RFC3339)),
			Reason:      "Badge reader was offline",
		})
		require.NoError(t, err)
		assert.Equal(t, string(policy.StatusPresent), resp.Status)
		assert.False(t, resp.IsLate)
		assert.False(t, resp.IsManualOverride)
		assert.Equal(t, "Badge reader was offline", *resp.OverrideReason)
		assert.Equal(t, managerID, *resp.ReviewedBy)
		require.Len(t, h.pub.events, 1)
		assert.Equal(t, sse.EventAttendanceOverride, h.pub.events[0].Event)
	})

	t.Run("check-out before check-in is rejected", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		original := h.closedLog(t, id, employeeID, at(10, 9, 20), at(10, 17, 0))

		_, err := h.svc.UpdateAttendance(managerCtx(t), attendance.UpdateAttendanceRequest{
			ID:           id,
			ClockOutTime: str(at(10, 8, 0).Format(time.RFC3339)),
			Reason:       "typo",
		})
		assert.ErrorIs(t, err, policy.ErrInvalidTimeRange)
		assert.Zero(t, h.repo.updates)
		assert.Equal(t, original, h.repo.records[id])
	})

	approvedSystemCheckout := func(t *testing.T, h *harness) {
		a := h.closedLog(t, id, employeeID, at(10, 9, 0), at(10, 22, 0))
		a.AutoCheckout = true
		a.OvertimeStatus = attendance.OvertimeApproved
		h.repo.put(a)
	}

	t.Run("edited system checkout goes back to review", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		approvedSystemCheckout(t, h)

		resp, err := h.svc.UpdateAttendance(managerCtx(t), attendance.UpdateAttendanceRequest{
			ID:          id,
			ClockInTime: str(at(10, 8, 30).Format(time.RFC3339)),
			Reason:      "Gate log shows an earlier arrival",
		})
		require.NoError(t, err)
		assert.True(t, resp.AutoCheckout)
		assert.Equal(t, string(attendance.OvertimePending), resp.OvertimeStatus)
		assert.InDelta(t, 4.5, resp.ExtraWorkedHours, 1e-9)
		assert.False(t, h.repo.records[id].OvertimeCounts())
	})

	t.Run("corrected check-out is a manual checkout", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		approvedSystemCheckout(t, h)

		resp, err := h.svc.UpdateAttendance(managerCtx(t), attendance.UpdateAttendanceRequest{
			ID:           id,
			ClockOutTime: str(at(10, 20, 0).Format(time.RFC3339)),
			Reason:       "Left at 20:00 per security desk",
		})
		require.NoError(t, err)
		assert.False(t, resp.AutoCheckout)
		assert.Equal(t, string(attendance.OvertimeNone), resp.OvertimeStatus)
		assert.InDelta(t, 2.0, resp.ExtraWorkedHours, 1e-9)
		assert.True(t, h.repo.records[id].OvertimeCounts())
	})

	t.Run("explicit status is a manual override", func(t *testing.T) {
		h := newHarness(at(12, 9, 0))
		h.closedLog(t, id, employeeID, at(10, 9, 20), at(10, 17, 0))

		resp, err := h.svc.UpdateAttendance(managerCtx(t), attendance.UpdateAttendanceRequest{
			ID:     id,
			Status: str(string(policy.StatusPresent)),
			Reason: "Approved client meeting",
		})
		require.NoError(t, err)
		assert.Equal(t, string(policy.StatusPresent), resp.Status)
		assert.True(t, resp.IsManualOverride)
		assert.False(t, resp.LateCountable)
		assert.True(t, decimal.NewFromInt(1).Equal(resp.DayCredit))
	})
}

func TestOvertimeReview(t *testing.T) {
	const id = "0192f1a0-0000-7000-8000-0000000000d1"

	pendingLog := func(t *testing.T, h *harness) {
		a := h.closedLog(t, id, employeeID, at(10, 9, 0), at(10, 22, 0))
		a.AutoCheckout = true
		a.OvertimeStatus = attendance.OvertimePending
		h.repo.put(a)
	}

	t.Run("approve", func(t *testing.T) {
		h := newHarness(at(11, 9, 0))
		pendingLog(t, h)

		resp, err := h.svc.ApproveOvertime(managerCtx(t), attendance.ApproveOvertimeRequest{ID: id})
		require.NoError(t, err)
		assert.Equal(t, string(attendance.OvertimeApproved), resp.OvertimeStatus)

		_, err = h.svc.ApproveOvertime(managerCtx(t), attendance.ApproveOvertimeRequest{ID: id})
		assert.ErrorIs(t, err, attendance.ErrOvertimeNotPending)
	})

	t.Run("reject needs reason", func(t *testing.T) {
		h := newHarness(at(11, 9, 0))
		pendingLog(t, h)

		_, err := h.svc.RejectOvertime(managerCtx(t), attendance.RejectOvertimeRequest{ID: id})
		assert.Error(t, err)

		resp, err := h.svc.RejectOvertime(managerCtx(t), attendance.RejectOvertimeRequest{ID: id, Reason: "Forgot to check out"})
		require.NoError(t, err)
		assert.Equal(t, string(attendance.OvertimeRejected), resp.OvertimeStatus)
		assert.Equal(t, "Forgot to check out", *resp.RejectionReason)
	})

	t.Run("employee cannot review", func(t *testing.T) {
		h := newHarness(at(11, 9, 0))
		pendingLog(t, h)

		_, err := h.svc.ApproveOvertime(employeeCtx(t), attendance.ApproveOvertimeRequest{ID: id})
		assert.ErrorIs(t, err, attendance.ErrUnauthorized)
	})

	t.Run("manual checkout has nothing to review", func(t *testing.T) {
		h := newHarness(at(11, 9, 0))
		h.closedLog(t, id, employeeID, at(10, 9, 0), at(10, 20, 0))

		_, err := h.svc.ApproveOvertime(managerCtx(t), attendance.ApproveOvertimeRequest{ID: id})
		assert.ErrorIs(t, err, attendance.ErrOvertimeNotPending)
	})
}

func TestDeleteAttendance(t *testing.T) {
	const id = "0192f1a0-0000-7000-8000-0000000000d1"
	h := newHarness(at(11, 9, 0))
	h.closedLog(t, id, employeeID, at(10, 9, 0), at(10, 18, 0))

	assert.ErrorIs(t, h.svc.DeleteAttendance(employeeCtx(t), id), attendance.ErrUnauthorized)
	require.NoError(t, h.svc.DeleteAttendance(managerCtx(t), id))
	assert.ErrorIs(t, h.svc.DeleteAttendance(managerCtx(t), id), attendance.ErrAttendanceNotFound)
}

func TestGetMonthlySummary(t *testing.T) {
	h := newHarness(at(31, 9, 0))
	// Three countable lates complete one block.
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d1", employeeID, at(3, 9, 20), at(3, 17, 0))
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d2", employeeID, at(4, 9, 20), at(4, 17, 0))
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d3", employeeID, at(5, 9, 20), at(5, 17, 0))
	// Two hours of extra time: not enough to offset.
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d4", employeeID, at(6, 8, 0), at(6, 19, 0))
	// Another employee's late day must not count.
	h.closedLog(t, "0192f1a0-0000-7000-8000-0000000000d5", otherEmpID, at(6, 9, 20), at(6, 17, 0))

	resp, err := h.svc.GetMonthlySummary(employeeCtx(t), attendance.SummaryRequest{Year: 2025, Month: 3})
	require.NoError(t, err)

	assert.Equal(t, employeeID, resp.EmployeeID)
	assert.Equal(t, 4, resp.Days)
	assert.Equal(t, 3, resp.StatusCounts["late"])
	assert.Equal(t, 3, resp.LateCount)
	assert.InDelta(t, 2.0, resp.ExtraHours, 1e-9)
	assert.Equal(t, 1, resp.Penalty.Blocks)
	assert.True(t, decimal.NewFromFloat(0.5).Equal(resp.Penalty.DeductionDays))
	assert.True(t, decimal.NewFromFloat(23.5).Equal(resp.ScheduledDays))
}

func TestGetMonthlySummary_Access(t *testing.T) {
	h := newHarness(at(31, 9, 0))

	_, err := h.svc.GetMonthlySummary(employeeCtx(t), attendance.SummaryRequest{EmployeeID: str(otherEmpID), Year: 2025, Month: 3})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	_, err = h.svc.GetMonthlySummary(managerCtx(t), attendance.SummaryRequest{Year: 2025, Month: 3})
	assert.ErrorIs(t, err, attendance.ErrEmployeeRequired)

	resp, err := h.svc.GetMonthlySummary(managerCtx(t), attendance.SummaryRequest{EmployeeID: str(otherEmpID), Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Zero(t, resp.Days)
}

func TestRolePermissionsUsedByService(t *testing.T) {
	assert.True(t, user.HasPermission(user.RoleManager, user.PermissionAttendanceApprove))
	assert.False(t, user.HasPermission(user.RoleEmployee, user.PermissionAttendanceManage))
}
