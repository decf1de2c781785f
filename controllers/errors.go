package controllers

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	// ErrInvalidOrder covers malformed order submissions: missing table
	// number, empty item list, non-positive quantity.
	ErrInvalidOrder = &CustomError{"invalid order: positive table number and at least one item are required"}

	// ErrInvalidCall covers malformed waiter-call submissions.
	ErrInvalidCall = &CustomError{"invalid call: table number and a known call type are required"}

	// ErrUnknownStatus is returned for a status value outside the enum.
	ErrUnknownStatus = &CustomError{"unknown status value"}
)
