// Package openai implements provider.Completer on top of the official
// OpenAI Go SDK.
//
// The SDK's automatic retries are disabled: a failed upstream call is
// surfaced to the caller immediately. SDK errors that carry an HTTP status
// are converted to *provider.UpstreamError.
package openai
