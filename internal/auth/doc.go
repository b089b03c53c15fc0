// Package auth implements session authentication: bcrypt password hashing,
// signed time-limited session tokens carried in an HTTP-only cookie, the
// login/signup service, and the gin middleware that attaches the caller's
// identity to the request.
package auth
