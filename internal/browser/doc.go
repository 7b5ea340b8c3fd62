// Package browser hands URLs to the operating system's default handler.
package browser
