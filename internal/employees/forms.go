package employees

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/models"

	"go.uber.org/zap"
)

// Messages shown by the forms.
const (
	MsgIDAndNameRequired = "Employee ID and Name are required"
	MsgAdded             = "Employee added successfully"
	MsgSelectToRemove    = "Please select an employee to remove"
	MsgRemoved           = "Employee removed successfully"
)

// API is the write side of the backend.
type API interface {
	CreateEmployee(ctx context.Context, e models.NewEmployee) (*models.Ack, error)
	DeleteEmployee(ctx context.Context, employeeID string) (*models.Ack, error)
}

// Field describes one add-form input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
}

// Fields in display order.
var Fields = []Field{
	{Key: "employee_id", Label: "Employee ID", Placeholder: "EMP001", Required: true},
	{Key: "name", Label: "Name", Placeholder: "Full name", Required: true},
	{Key: "email", Label: "Email", Placeholder: "name@company.com"},
	{Key: "phone", Label: "Phone"},
	{Key: "designation", Label: "Designation"},
	{Key: "domain", Label: "Domain"},
	{Key: "department", Label: "Department"},
	{Key: "employee_type", Label: "Employee Type", Placeholder: "Full-time"},
	{Key: "salary_band", Label: "Salary Band"},
	{Key: "manager_name", Label: "Manager Name"},
	{Key: "manager_email", Label: "Manager Email"},
	{Key: "location", Label: "Location", Placeholder: "Office"},
	{Key: "joining_date", Label: "Joining Date", Placeholder: "YYYY-MM-DD"},
	{Key: "work_mode", Label: "Work Mode", Placeholder: "Office / WFH / Hybrid"},
}

func defaultEmployee() models.NewEmployee {
	return models.NewEmployee{
		Location: "Office",
		WorkMode: models.WorkModeHybrid,
	}
}

// formState pairs a form's request state with its success message. A success
// message lasts until the next edit or submit.
type formState struct {
	call    *client.Caller
	success string
}

func newFormState() formState {
	return formState{call: client.NewCaller()}
}

func (s *formState) touch() {
	s.call.ClearErr()
	s.success = ""
}

// AddForm collects and submits a new employee.
type AddForm struct {
	api    API
	logger *zap.Logger

	mu     sync.Mutex
	values models.NewEmployee
	formState
}

func NewAddForm(api API, logger *zap.Logger) *AddForm {
	return &AddForm{api: api, logger: logger, values: defaultEmployee(), formState: newFormState()}
}

// Reset restores every field to its default.
func (f *AddForm) Reset() {
	f.mu.Lock()
	f.values = defaultEmployee()
	f.touch()
	f.mu.Unlock()
}

// Set updates a field by key and clears any error or success message.
func (f *AddForm) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := fieldPtr(&f.values, key)
	if p == nil {
		return fmt.Errorf("unknown field %q", key)
	}
	*p = value
	f.touch()
	return nil
}

func (f *AddForm) Get(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := fieldPtr(&f.values, key); p != nil {
		return *p
	}
	return ""
}

// Values returns a copy of the current input.
func (f *AddForm) Values() models.NewEmployee {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Submit validates and posts the employee. On success the form resets and
// shows MsgAdded; on failure the input is kept.
func (f *AddForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.call.Begin() {
		f.mu.Unlock()
		return nil
	}
	f.success = ""
	payload := f.values
	f.mu.Unlock()

	if err := validate(payload); err != nil {
		return f.call.End(err)
	}

	payload = trimmed(payload)
	_, err := f.api.CreateEmployee(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call.End(err) != nil {
		f.logger.Warn("Add employee failed", zap.String("employee_id", payload.EmployeeID), zap.Error(err))
		return client.AsError(err)
	}
	f.logger.Info("Employee added", zap.String("employee_id", payload.EmployeeID))
	f.values = defaultEmployee()
	f.success = MsgAdded
	return nil
}

// Status returns loading, the last error and the success message.
func (f *AddForm) Status() (loading bool, err *client.Error, success string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.call.Loading(), f.call.Err(), f.success
}

func validate(e models.NewEmployee) *client.Error {
	if strings.TrimSpace(e.EmployeeID) == "" || strings.TrimSpace(e.Name) == "" {
		return client.Validation(MsgIDAndNameRequired)
	}
	if d := strings.TrimSpace(e.JoiningDate); d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return client.Validation("Joining date must be YYYY-MM-DD")
		}
	}
	if m := strings.TrimSpace(e.WorkMode); m != "" && !validWorkMode(m) {
		return client.Validation("Work mode must be Office, WFH or Hybrid")
	}
	return nil
}

func validWorkMode(m string) bool {
	for _, w := range models.WorkModes {
		if w == m {
			return true
		}
	}
	return false
}

func trimmed(e models.NewEmployee) models.NewEmployee {
	for _, fd := range Fields {
		p := fieldPtr(&e, fd.Key)
		*p = strings.TrimSpace(*p)
	}
	if e.WorkMode == "" {
		e.WorkMode = models.WorkModeHybrid
	}
	return e
}

func fieldPtr(e *models.NewEmployee, key string) *string {
	switch key {
	case "employee_id":
		return &e.EmployeeID
	case "name":
		return &e.Name
	case "email":
		return &e.Email
	case "phone":
		return &e.Phone
	case "designation":
		return &e.Designation
	case "domain":
		return &e.Domain
	case "department":
		return &e.Department
	case "employee_type":
		return &e.EmployeeType
	case "salary_band":
		return &e.SalaryBand
	case "manager_name":
		return &e.ManagerName
	case "manager_email":
		return &e.ManagerEmail
	case "location":
		return &e.Location
	case "joining_date":
		return &e.JoiningDate
	case "work_mode":
		return &e.WorkMode
	}
	return nil
}

// RemoveForm deletes the selected employee after confirmation.
type RemoveForm struct {
	api    API
	logger *zap.Logger

	mu       sync.Mutex
	selected string
	formState
}

func NewRemoveForm(api API, logger *zap.Logger) *RemoveForm {
	return &RemoveForm{api: api, logger: logger, formState: newFormState()}
}

func (f *RemoveForm) Select(id string) {
	f.mu.Lock()
	f.selected = id
	f.touch()
	f.mu.Unlock()
}

func (f *RemoveForm) Selected() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// ConfirmPrompt is the question asked before deleting.
func ConfirmPrompt(name, id string) string {
	if name == "" {
		name = id
	}
	return fmt.Sprintf("Are you sure you want to remove %s?", name)
}

// Submit deletes the selection. confirm is asked first and may be nil when
// the caller has already confirmed; declining is not an error. removed
// reports whether the backend deleted the employee.
func (f *RemoveForm) Submit(ctx context.Context, confirm func(id string) bool) (removed bool, err error) {
	f.mu.Lock()
	if f.call.Loading() {
		f.mu.Unlock()
		return false, nil
	}
	f.touch()
	id := f.selected
	if id == "" {
		f.call.Begin()
		err := f.call.End(client.Validation(MsgSelectToRemove))
		f.mu.Unlock()
		return false, err
	}
	f.mu.Unlock()

	if confirm != nil && !confirm(id) {
		return false, nil
	}
	if !f.call.Begin() {
		return false, nil
	}

	_, callErr := f.api.DeleteEmployee(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call.End(callErr) != nil {
		f.logger.Warn("Remove employee failed", zap.String("employee_id", id), zap.Error(callErr))
		return false, client.AsError(callErr)
	}
	f.logger.Info("Employee removed", zap.String("employee_id", id))
	f.selected = ""
	f.success = MsgRemoved
	return true, nil
}

func (f *RemoveForm) Status() (loading bool, err *client.Error, success string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.call.Loading(), f.call.Err(), f.success
}
