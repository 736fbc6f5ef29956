// Package auth identifies menu callers and decides which administrative
// actions they may perform.
//
// Callers are represented by an Identity. An identity is an administrator
// when it carries RoleAdmin, which AdminList assigns to the principals named
// in configuration. Identities travel through request contexts via
// WithIdentity and CallerFromContext.
//
// Authenticators turn transport credentials into identities: a trusted
// header set by the hosting bot, or a signed JWT. AdminAuthorizer gates the
// status, clear-cache, and rebuild actions behind RoleAdmin and reports
// denials as *AuthzError, which matches ErrForbidden.
package auth
