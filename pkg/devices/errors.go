package devices

import "errors"

var (
	// ErrRuntimeUnavailable indicates the accelerator runtime is not present.
	ErrRuntimeUnavailable = errors.New("accelerator runtime not present")
	// ErrRuntimeVersion indicates the accelerator runtime is below the required minimum.
	ErrRuntimeVersion = errors.New("accelerator runtime below required version")
	// ErrNoDevices indicates enumeration found no usable devices.
	ErrNoDevices = errors.New("no compute devices found")
)
