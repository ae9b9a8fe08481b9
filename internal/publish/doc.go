// Package publish pushes generated documentation to the site repository.
//
// Publishing is gated on the CI environment (branch, pull-request flag, OS)
// and needs an access token; both are checked when the publisher is built,
// so a run that cannot publish fails before any documentation is generated.
package publish
