// Package provider defines the narrow capability searelay needs from an
// upstream completion API: send an ordered message list, receive a list of
// choices.
//
// Adapters (see provider/openai) translate their backend's failures into
// *UpstreamError when the backend answered with an HTTP status, and into
// plain wrapped errors otherwise (network failures, cancelled contexts).
// Callers branch on errors.As rather than on the shape of the error value.
package provider
