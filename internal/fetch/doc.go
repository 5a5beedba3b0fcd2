// Package fetch retrieves a single web page over HTTP(S).
//
// A Fetcher performs one GET per call. It sets the User-Agent and Accept
// headers, injects configured cookies and headers on every hop, follows a
// bounded number of redirects, caps the body size, and converts the body to
// UTF-8 using the charset declared by the server or the markup. Requests can
// be routed through a SOCKS5 proxy such as a local Tor daemon.
//
// Fetch never follows links found in the page.
package fetch
