package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task-specific errors
var (
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskNameEmpty   = errors.New("task name cannot be empty")
)

// MaxTaskNameLength is the maximum number of characters in a task name.
const MaxTaskNameLength = 255

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a to-do item owned by exactly one user for its entire lifetime.
// IDs are assigned by the store in insertion order.
type Task struct {
	ID          int64      `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks the invariants of a task about to be persisted.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if t.Name == "" {
		return ErrTaskNameEmpty
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// TaskInput carries the fields of a task creation request.
type TaskInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

// NewTask validates in and builds an unsaved task owned by userID.
// All failing fields are reported together in a *ValidationError.
func NewTask(userID uuid.UUID, in TaskInput) (*Task, error) {
	verr := &ValidationError{}
	name, status, dueDate := validateInput(verr, in)
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &Task{
		UserID:      userID,
		Name:        name,
		Description: normalizeDescription(in.Description),
		Status:      status,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// OptionalString distinguishes a JSON field that was omitted (Set == false)
// from one sent as null (Set == true, Value == nil). A present value that is
// not a JSON string sets Invalid so it surfaces as a field error.
type OptionalString struct {
	Set     bool
	Invalid bool
	Value   *string
}

// Some returns a present OptionalString holding s.
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null returns a present OptionalString holding null.
func Null() OptionalString {
	return OptionalString{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Invalid = false
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			o.Invalid = true
			return nil
		}
		return err
	}
	o.Value = &s
	return nil
}

// TaskPatch carries a partial update. Only fields that are Set change.
type TaskPatch struct {
	Name        OptionalString `json:"name"`
	Description OptionalString `json:"description"`
	Status      OptionalString `json:"status"`
	DueDate     OptionalString `json:"due_date"`
}

// typeErrors records a failure for every field sent with a non-string value.
func (p TaskPatch) typeErrors(verr *ValidationError) {
	fields := []struct {
		name string
		rule string
		opt  OptionalString
	}{
		{"name", "string", p.Name},
		{"description", "string", p.Description},
		{"status", "in", p.Status},
		{"due_date", "date", p.DueDate},
	}
	for _, f := range fields {
		if f.opt.Set && f.opt.Invalid {
			verr.Add(f.name, FieldMessage(f.name, f.rule, ""))
		}
	}
}

// CreateInput converts a decoded creation body into a TaskInput. Fields sent
// with the wrong JSON type are reported together with every other failing
// field in a *ValidationError.
func (p TaskPatch) CreateInput() (TaskInput, error) {
	in := TaskInput{
		Name:        deref(p.Name.Value),
		Description: p.Description.Value,
		Status:      deref(p.Status.Value),
		DueDate:     p.DueDate.Value,
	}

	verr := &ValidationError{}
	p.typeErrors(verr)
	if !verr.HasErrors() {
		return in, nil
	}
	validateInput(verr, in)
	return TaskInput{}, verr
}

// ApplyPatch validates p and, only if every supplied field is valid,
// copies the supplied fields onto t. Name and status are required when
// present; description and due date may be cleared with null.
func (t *Task) ApplyPatch(p TaskPatch) error {
	verr := &ValidationError{}
	p.typeErrors(verr)

	var name string
	if p.Name.Set {
		name = validateName(verr, deref(p.Name.Value))
	}
	var status TaskStatus
	if p.Status.Set {
		status = validateStatus(verr, deref(p.Status.Value))
	}
	var dueDate *time.Time
	if p.DueDate.Set {
		dueDate = validateDueDate(verr, p.DueDate.Value)
	}

	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	if p.Name.Set {
		t.Name = name
	}
	if p.Status.Set {
		t.Status = status
	}
	if p.Description.Set {
		t.Description = normalizeDescription(p.Description.Value)
	}
	if p.DueDate.Set {
		t.DueDate = dueDate
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
// and returns midnight UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

func validateInput(verr *ValidationError, in TaskInput) (string, TaskStatus, *time.Time) {
	name := validateName(verr, in.Name)
	status := validateStatus(verr, in.Status)
	dueDate := validateDueDate(verr, in.DueDate)
	return name, status, dueDate
}

func validateName(verr *ValidationError, raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		verr.Add("name", FieldMessage("name", "required", ""))
	case utf8.RuneCountInString(name) > MaxTaskNameLength:
		verr.Add("name", FieldMessage("name", "max", "255"))
	}
	return name
}

func validateStatus(verr *ValidationError, raw string) TaskStatus {
	status := TaskStatus(strings.TrimSpace(raw))
	switch {
	case status == "":
		verr.Add("status", FieldMessage("status", "required", ""))
	case !status.IsValid():
		verr.Add("status", FieldMessage("status", "in", ""))
	}
	return status
}

func validateDueDate(verr *ValidationError, raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	d, err := ParseDate(*raw)
	if err != nil {
		verr.Add("due_date", FieldMessage("due_date", "date", ""))
		return nil
	}
	return &d
}

func normalizeDescription(raw *string) *string {
	if raw == nil {
		return nil
	}
	d := strings.TrimSpace(*raw)
	if d == "" {
		return nil
	}
	return &d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
