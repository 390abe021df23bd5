// Package shell generates the POSIX-flavoured (bash/zsh) code that activates
// and deactivates a project environment in the calling shell.
//
// Activation scripts are built from a few primitives: save-once backups,
// ':'-joined exports and a system-path completeness guard. Every script
// saves the pre-activation PATH and library paths before touching them, so
// sourcing it twice is harmless and the deactivation guard function can
// restore the original state when the shell leaves the project tree.
//
// HookSnippet returns the chpwd (zsh) or PROMPT_COMMAND (bash) integration
// that calls launchpad dev on directory change.
package shell
