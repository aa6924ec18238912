// Package httpclient builds HTTP request descriptions and resolves raw
// transport responses into decoded values or structured errors.
//
// A Request is an immutable value: every With* method returns a copy. The
// package never performs socket I/O itself; a Transport turns a Request
// into a RawResponse, one of BadURLResponse, TimeoutResponse,
// NetworkErrorResponse, BadStatusResponse or GoodStatusResponse.
//
// A Resolver maps a RawResponse to either a success value or an *Error
// whose Problem is one of BadURL, Timeout, NetworkError, BadStatus or
// BadBody. Resolvers come in increasing fidelity:
//
//   - ResolveCompatible: minimal *CompatError (kind, url, status, message)
//   - Simple: metadata kept, error body passed through as text
//   - Detailed: error body decoded by a metadata-aware decoder
//   - WithRequest: Detailed plus the originating Request
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.github.com",
//	    Timeout: 10 * time.Second,
//	}, transport)
//
//	user, err := httpclient.Do(ctx, client,
//	    httpclient.Get("/users/alice").WithHeader("Accept", "application/json"),
//	    httpclient.Detailed(decode.JSON[User](), httpclient.Static(decode.JSON[GitHubError]())),
//	)
//
// # Tracked Requests
//
// DoTracked associates a call with a tracker key. Dispatching again under
// the same key cancels the previous call, and Client.Cancel(key) cancels it
// out of band. A cancelled call returns ErrCanceled.
package httpclient
