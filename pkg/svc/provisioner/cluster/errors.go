package clusterprovisioner

import "errors"

// ErrUnsupportedProvider is returned when no provisioner exists for the
// configured provider.
var ErrUnsupportedProvider = errors.New("unsupported cluster provider")
