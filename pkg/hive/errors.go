package hive

import "errors"

var (
	// ErrWorkerRejected is returned when the hive answers 400; it carries
	// the server-supplied message.
	ErrWorkerRejected = errors.New("hive rejected worker")
	// ErrUnexpectedStatus is returned for any other non-200 status.
	ErrUnexpectedStatus = errors.New("hive returned unexpected status")
)
