// Package app wires configuration, logging, catalog loading and the
// dispatcher into one runnable application.
package app
