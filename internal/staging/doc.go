// Package staging copies the application's source tree into the build
// output.
//
// Copying applies glob-style ignore patterns, verifies the configured
// entry point survived the copy, and prepends runtime headers to the entry
// point (stream redirection for windowless apps, a working-directory chdir
// when sources live in a subdirectory).
package staging
