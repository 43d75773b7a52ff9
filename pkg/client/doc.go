// Package client contains the clients slipway uses to talk to external
// systems: the doctl and kubectl binaries, the Docker engine, container
// registries, Helm, and Argo CD.
package client
