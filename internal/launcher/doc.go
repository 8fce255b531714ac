// Package launcher synthesizes the double-clickable executable that starts
// the bundled application.
//
// Generation starts from a precompiled stub template (console-attached or
// windowless) carrying a fixed-size placeholder region. The region is
// patched with the launch command, every path in it prefixed with a marker
// the stub resolves to its own directory at launch time, which keeps the
// finished app directory relocatable. An optional .ico file is parsed and
// written into the output's resource section.
package launcher
