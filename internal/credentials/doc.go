// Package credentials supplies access tokens for authenticated remote operations.
//
// A missing token is a valid state: callers fall back to unauthenticated access.
// Tokens are looked up on every call so rotated credentials are picked up.
package credentials
