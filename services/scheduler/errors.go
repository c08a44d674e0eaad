package scheduler

import (
	"errors"
	"fmt"
)

// Error codes for the scheduling subsystem. Infeasible solves are reported
// as result statuses rather than errors, so they carry no code here;
// CodeCapacityRace surfaces per slot on FailedSlot rather than as a
// call-level error.
const (
	CodeNoAvailability = "noAvailability"
	CodeSessionExpired = "sessionExpired"
	CodeSlotNotFound   = "slotNotFound"
	CodeCapacityRace   = "capacityRace"
)

type SchedulingError struct {
	Code    string
	Message string
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNoAvailabilityError(msg string) error {
	return &SchedulingError{Code: CodeNoAvailability, Message: msg}
}

func NewSessionExpiredError(msg string) error {
	return &SchedulingError{Code: CodeSessionExpired, Message: msg}
}

func NewSlotNotFoundError(msg string) error {
	return &SchedulingError{Code: CodeSlotNotFound, Message: msg}
}

// HasCode reports whether err is a SchedulingError carrying the given code.
func HasCode(err error, code string) bool {
	var se *SchedulingError
	return errors.As(err, &se) && se.Code == code
}
