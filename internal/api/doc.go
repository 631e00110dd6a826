// Package api implements typed clients for the NutriScan backend REST API.
//
// Every endpoint speaks the fixed JSON envelope {success, data?, message?}
// with bearer-token authentication. Methods return decoded domain records and
// normalized errors: sentinel values for the common classes (match with
// errors.Is) and structured types for validation failures. Idempotent reads
// are retried with a bounded fibonacci backoff; mutations are never retried.
package api
