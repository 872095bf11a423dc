// Package clientip resolves the address of the client behind a request.
//
// The service usually runs behind Cloudflare or a load balancer, so proxy
// headers take precedence over RemoteAddr. Middleware resolves the address
// once per request and stores it in the context, where the render throttle
// and the logger pick it up.
package clientip
