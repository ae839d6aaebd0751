// Package api implements the request dispatch core of the Lakeport client.
//
// # Overview
//
// Every operation in the client funnels through a single *Client, which turns
// a method, a path and a Payload into exactly one HTTP round trip against the
// Lakeport REST API and normalizes the outcome:
//
//   - 2xx responses are decoded into an Envelope (the raw JSON object
//     returned by the host).
//   - Non-2xx responses become an *Error carrying the HTTP status and the
//     server-provided message, passed through verbatim.
//   - Failures to obtain a response at all (DNS, timeout, connection reset)
//     become an *Error wrapping ErrTransport.
//
// The dispatcher never retries. The wrapped API has its own idempotency
// semantics per endpoint, so retries are the caller's responsibility; see
// the retry package for an opt-in wrapper.
//
// # Configuration
//
// All session state (host, bearer token, API version, account ID) lives in an
// explicit Config passed to NewClient. There are no package-level globals and
// a Client is read-only after construction, so a single Client is safe for
// concurrent use.
//
//	cfg := api.DefaultConfig()
//	cfg.Host = "https://workspace.cloud.lakeport.io"
//	cfg.Token = os.Getenv("LAKEPORT_TOKEN")
//
//	client, err := api.NewClient(cfg)
//
// # Request shape
//
// GET and DELETE requests serialize their Payload as URL query parameters;
// POST, PUT and PATCH requests serialize it as a JSON body. Identity (SCIM)
// endpoints override the content type with WithContentType(ContentTypeSCIM).
//
// Paths follow the convention
//
//	/api/<version>/<resource-family>/<resource-type>/<resource-id>
//
// with all resource-type tokens lowercased. Endpoint descriptors
// (method, path template, API version) are declared once per operation by the
// service packages under pkg/services.
package api
