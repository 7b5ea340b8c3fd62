// Package intercept builds the in-page script that keeps navigation inside
// the shell window: clicks on anchors resolving to a non-local hostname are
// suppressed and handed to a bound external-open function instead.
package intercept
