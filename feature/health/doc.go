// Package health exposes operational checks over the deployment: database
// schema, scan archive bucket, and note/detail consistency. All checks are
// read-only except the explicit fix actions.
package health
