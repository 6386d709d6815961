//go:build e2e

// Package e2e holds the browser scenarios for sign-up, sign-in and sign-out.
//
// Run them with `go test -tags e2e ./e2e/...` or `go run ./cmd/e2e run`.
// Without BASE_URL the suite starts the bundled demo app; set it to point
// the scenarios at a deployed Conduit instead.
package e2e
