// Package archive creates and extracts the archives handled by the
// packager: the embeddable runtime distribution (zip, extract only) and the
// final distributable (zip or tar.xz, create only).
//
// Archive creation is deterministic. Entries are written in lexical walk
// order with a fixed timestamp, so building the same tree twice produces
// byte-identical archives.
package archive
