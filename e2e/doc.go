//go:build e2e

// Package e2e runs the landing page suites against the live site.
//
// These tests are isolated from the standard test suite via build tags.
// They need network access and, for the browser engines, a Chrome or
// Firefox install (Rod and Playwright download one when missing).
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// The engine, base URL and timeouts come from the E2E_* environment
// variables, a .env file at the repository root is read when present.
package e2e
