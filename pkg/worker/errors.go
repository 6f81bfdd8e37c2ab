package worker

import "errors"

var (
	errHiveURIRequired = errors.New("hive uri is required")
	errTokenRequired   = errors.New("hive token is required")
)
