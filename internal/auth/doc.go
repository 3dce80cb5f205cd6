// Package auth provides authentication and authorisation for the kiosk's
// privileged surfaces.
//
// There are two credential pools, administrators and operators, stored in
// separate tables and looked up through a typed Pool enum. A successful
// login against a pool creates a server-side session and returns a signed
// JWT carrying the session ID; every privileged request must present a
// token whose session is still alive, so logout revokes access immediately.
//
// Passwords are hashed with Argon2id and stored in PHC string format.
// Empty pools are seeded with a random-password account on first boot.
package auth
