// Package auth provides optional inbound authentication and per-caller rate
// limiting for the searelay API.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as HTTP middleware, keeping it decoupled from the
// relay logic. Health and metrics endpoints bypass it.
package auth
