// Package utils provides common utility functions for the sheet-sync application.
// It includes helper functions for type conversion and other shared logic that
// doesn't fit into domain-specific packages.
package utils
