// Package authtoken implements MindRemember's access-token layer.
//
// Access tokens are signed JWTs (HMAC family, HS256 by default) carrying the
// minimal claim set the API needs: the subject login and an absolute expiry.
// There is no refresh mechanism and no server-side session state — expiry
// forces re-login, and validation is a pure signature + clock check.
//
// The signing secret is process-wide and loaded once at startup
// (MR_AUTH_SECRET_KEY); every component that needs it receives a constructed
// manager, never the raw key.
package authtoken
