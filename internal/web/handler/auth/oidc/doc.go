// Package oidc provides the OpenID Connect login and callback handlers.
//
// The login handler stores a random state with a short expiry and redirects to the
// identity provider. The callback checks and consumes that state, lets the provider
// exchange the code for a user and starts a session carrying the ID token, which the
// logout handler hands back to the provider's end session endpoint.
package oidc
