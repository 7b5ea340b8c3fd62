// Package window owns the native shell surface: a Chrome app window on most
// platforms, an Edge WebView2 window on Windows. The surface is logically
// hidden until revealed; the native window is only created on the first
// Reveal, so no empty frame shows while the server boots.
// When no native surface can be created the shell degrades to opening the
// URL in the default browser.
package window
