package k8s

import "errors"

// ErrKubeconfigPathEmpty is returned when a kubeconfig path is required but empty.
var ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")
