// Package runtime provisions an extracted embeddable Python distribution
// and installs dependencies into it.
//
// Provisioning turns the stock embeddable tree, which disables discovery of
// installed packages, into one that can install and import third-party
// code: the path configuration file is rewritten, the stdlib archive is
// expanded, and pip is bootstrapped by the runtime's own interpreter.
//
// Child processes (the interpreter, pip) run synchronously with their
// output streamed line-by-line into the logger, so long installs show live
// progress. All mutations are idempotent and safe to re-run after a
// partial failure.
package runtime
