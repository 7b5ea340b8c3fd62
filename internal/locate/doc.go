// Package locate finds the companion server's entry point on disk.
//
// The launcher may run from a development checkout, from a packaged bundle
// with a resources directory, or from a bare install next to the server
// tree. Locator walks a fixed priority order of candidate roots and selects
// the first one containing the entry-point file, then derives the working
// directory the server expects.
package locate
