// Package registry manages registered identities and the admission check.
//
// An identity is a registration key plus display name, created only by an
// administrator. The admission check, Exists(key), is the sole gate on
// whether an unprivileged caller may file a report: there is no rate
// limiting, expiry, or revocation.
//
// Duplicate registration is idempotent-by-ignore: registering a key twice
// leaves exactly one record and surfaces no error to the caller.
package registry
