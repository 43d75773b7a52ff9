// Package readiness provides polling helpers that wait for cluster components
// to become ready after provisioning or installation.
package readiness
