package main

// The command region the packager patches: 259 command bytes, NUL-padded,
// followed by the console flag byte. The literal below is the unpatched
// placeholder; a generated launcher carries the real command in its place.
// Must stay a single expression of string literals so it is embedded
// contiguously in the compiled binary.
const launchSpec = "XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX" +
	"1"

// Byte length of the command region, excluding the flag byte.
const commandLength = len(launchSpec) - 1
