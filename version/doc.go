// Package version reports the httpkit build version. It feeds the default
// User-Agent of httpclient and the service version of telemetry resources.
//
// Version and GitCommit can be set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/httpkit/version.Version=1.0.0"
package version
