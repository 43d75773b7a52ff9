// Package fsutil provides filesystem helpers shared by generators and config
// management: home-path expansion and guarded file writing.
package fsutil
