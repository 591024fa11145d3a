// Package auth implements API key authentication middleware.
//
// Requests must present the configured key in the X-Api-Key header.
// An empty configured key disables the check entirely, which is the
// development default.
package auth
