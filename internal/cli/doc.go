// Package cli parses the command-line surface: one optional positional
// budget argument plus operational flags, translated into an app.Config.
package cli
