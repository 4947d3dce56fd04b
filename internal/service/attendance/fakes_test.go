package attendance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/require"
)

const (
	companyID  = "0192f1a0-0000-7000-8000-00000000c001"
	employeeID = "0192f1a0-0000-7000-8000-00000000e001"
	otherEmpID = "0192f1a0-0000-7000-8000-00000000e002"
	userID     = "0192f1a0-0000-7000-8000-00000000a001"
	managerID  = "0192f1a0-0000-7000-8000-00000000a002"
)

var wib = time.FixedZone("WIB", 7*60*60)

// at builds an instant on 2025-03-<day> in WIB. 2025-03-10 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, wib)
}

func f64(v float64) *float64 { return &v }
func str(v string) *string    { return &v }

func testPolicy() policy.Config {
	cfg := policy.DefaultConfig()
	cfg.Location = wib
	return cfg
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	updates int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) put(a attendance.Attendance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[a.ID] = a
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EmployeeID == a.EmployeeID && r.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	a.CreatedAt = a.ClockIn
	a.UpdatedAt = a.ClockIn
	f.records[a.ID] = a
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string, company string) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.records[id]
	if !ok || a.CompanyID != company {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, empID string, date time.Time, company string) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.records {
		if a.EmployeeID == empID && a.CompanyID == company && a.Date.Equal(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, empID string, company string) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.records {
		if a.EmployeeID == empID && a.CompanyID == company && a.ClockOut == nil {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[a.ID] = a
	f.updates++
	return nil
}

func (f *fakeAttendanceRepo) CloseOpenSession(ctx context.Context, a attendance.Attendance) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[a.ID]
	if !ok || stored.ClockOut != nil {
		return false, nil
	}
	f.records[a.ID] = a
	f.updates++
	return true, nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string, company string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.records[id]; !ok || a.CompanyID != company {
		return attendance.ErrAttendanceNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeAttendanceRepo) sorted(keep func(attendance.Attendance) bool) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range f.records {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, company string) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(a attendance.Attendance) bool {
		return a.CompanyID == company && (filter.EmployeeID == nil || a.EmployeeID == *filter.EmployeeID)
	})
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) GetMyAttendance(ctx context.Context, empID string, filter attendance.MyAttendanceFilter, company string) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(a attendance.Attendance) bool {
		return a.CompanyID == company && a.EmployeeID == empID
	})
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListByPeriod(ctx context.Context, company string, empID *string, start, end time.Time) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(a attendance.Attendance) bool {
		return a.CompanyID == company &&
			(empID == nil || a.EmployeeID == *empID) &&
			!a.Date.Before(start) && !a.Date.After(end)
	}), nil
}

func (f *fakeAttendanceRepo) ListOpenSessions(ctx context.Context) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(a attendance.Attendance) bool { return a.ClockOut == nil }), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]employee.Employee{
		employeeID: {ID: employeeID, UserID: str(userID), CompanyID: companyID, FullName: "Rina Wijaya", EmploymentStatus: employee.EmploymentStatusActive},
		otherEmpID: {ID: otherEmpID, CompanyID: companyID, FullName: "Budi Santoso", EmploymentStatus: employee.EmploymentStatusActive},
	}}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, company string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.CompanyID != company {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, uid string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID != nil && *e.UserID == uid {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, company string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == company && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []sse.Event
}

func (p *recordingPublisher) Publish(uid string, event sse.Event) {
	event.UserID = uid
	p.events = append(p.events, event)
}

func authContext(t *testing.T, uid string, empID string, role user.Role) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	claims := map[string]interface{}{
		"user_id":    uid,
		"company_id": companyID,
		"role":       string(role),
		"type":       "access",
	}
	if empID != "" {
		claims["employee_id"] = empID
	}
	token, _, err := tokenAuth.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func employeeCtx(t *testing.T) context.Context {
	return authContext(t, userID, employeeID, user.RoleEmployee)
}

func managerCtx(t *testing.T) context.Context {
	return authContext(t, managerID, "", user.RoleManager)
}

type harness struct {
	svc  *AttendanceServiceImpl
	repo *fakeAttendanceRepo
	pub  *recordingPublisher
	now  time.Time
}

func newHarness(now time.Time) *harness {
	h := &harness{
		repo: newFakeAttendanceRepo(),
		pub:  &recordingPublisher{},
		now:  now,
	}
	h.svc = NewAttendanceService(h.repo, newFakeEmployeeRepo(), h.pub, testPolicy())
	h.svc.now = func() time.Time { return h.now }
	return h
}

// closedLog stores a finished day evaluated under the test policy.
func (h *harness) closedLog(t *testing.T, id, empID string, in, out time.Time) attendance.Attendance {
	t.Helper()
	cfg := testPolicy()
	a := attendance.Attendance{
		ID:             id,
		EmployeeID:     empID,
		CompanyID:      companyID,
		Date:           cfg.LocalDate(in),
		ClockIn:        in,
		ClockOut:       &out,
		EmployeeName:   str("Rina Wijaya"),
		EmployeeUserID: str(userID),
	}
	ev, err := policy.Evaluate(in, &out, cfg)
	require.NoError(t, err)
	a.ApplyEvaluation(ev)
	h.repo.put(a)
	return a
}
