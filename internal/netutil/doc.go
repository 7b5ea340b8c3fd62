// Package netutil classifies hostnames as local or external. The launcher
// only ever supervises a server on the loopback interface, and the link
// interceptor needs the set of hostnames that still count as "this app"
// when deciding whether a click leaves for the system browser.
package netutil
