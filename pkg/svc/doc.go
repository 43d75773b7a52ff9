// Package svc contains the service layer that orchestrates pipeline stages:
// cluster provisioning, GitOps controller installation, tool installation,
// and the demo matting engine.
package svc
