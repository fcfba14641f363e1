// Package auth authenticates dashboard users.
//
// Three sources are supported and can be enabled side by side:
//   - local database accounts with Argon2id password hashes
//   - LDAP or Active Directory, binding as the user after a service account search
//   - OpenID Connect through an external identity provider
//
// LDAP and OIDC users are created on their first login and refreshed on every
// later one. Authorization is a single role per user: admins edit the dashboard
// settings, operators manage their own clients.
//
// Example usage:
//
//	svc := auth.NewService(cfg.Auth, db)
//	user, err := svc.Login(ctx, username, password)
//
//	oidcProvider, err := auth.NewOIDCProvider(ctx, cfg.Auth.OIDC, db)
//	redirect := oidcProvider.AuthURL(state)
package auth
