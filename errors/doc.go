// Package errors provides the structured error type used for configuration
// and usage failures across httpkit.
//
// Failures of an HTTP call itself are never AppErrors: they are resolved into
// httpclient.Error values. AppError covers the surrounding concerns such as
// loading a client configuration or validating a decoded struct.
package errors
