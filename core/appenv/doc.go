// Package appenv holds the deployment environment settings shared by the
// authentication components: production mode, the cookie name prefix, and the
// diagnostics switch.
//
// The Env value is constructed once at startup and passed explicitly to
// component constructors. Components never consult process environment
// variables at request time.
//
// Basic usage:
//
//	env, err := appenv.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cookieMgr, _ := cookie.New(secrets, cookie.WithSecure(env.IsProduction()))
//	transport := sessiontransport.New(env, cookieMgr, issuer, codec, mat)
//
// Cookie names follow the deployed naming scheme so that production and
// preview deployments never share sessions:
//
//	env.SessionCookieName()  // "__Secure-app.session-token" in production
//	env.CallbackCookieName() // "__Secure-app.callback-url"
//	env.CSRFCookieName()     // "__Host-app.csrf-token"
package appenv
