// Package rayid tags every request with a unique ray ID.
//
// The ID is stored in the request locals for logger.WithRayID and echoed
// in the X-Ray-Id response header.
package rayid
