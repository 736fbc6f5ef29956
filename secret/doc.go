// Package secret resolves secret-bearing configuration values such as the
// JWT signing key.
//
// A value is first expanded strictly against the environment: ${VAR} must
// be set, and $$ produces a literal dollar sign. The expanded value may then
// contain references of the form
//
//	secretref:<provider>:<ref>
//
// either as the whole value or inline. Two providers are built in: "env"
// reads an environment variable and "file" reads a file, as mounted by
// container secret stores.
package secret
