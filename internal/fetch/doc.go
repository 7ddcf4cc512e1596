// Package fetch is the network collaborator of the users demo: a small JSON
// client over net/http.
//
// # Semantics
//
// Every call is a single GET. A 2xx response body is decoded as JSON into the
// caller's value; anything else becomes a *StatusError, which matches
// ErrStatus with errors.Is. Transport failures are wrapped with
// "execute request:" and decoding failures with "decode response:". There is
// no retry policy: the demo surfaces the error to the user, who can refresh
// by hand.
//
// # Base URL
//
// The base URL comes from the api_base config field and defaults to the
// public JSONPlaceholder API. A bare host:port is treated as http. A base path
// is kept and request paths are appended to it:
//
//	api_base = "localhost:3000/api"
//	GET http://localhost:3000/api/users
package fetch
