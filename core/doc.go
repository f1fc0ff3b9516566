// Package core holds the pieces every client in this module shares: the options
// aggregate, the error taxonomy, endpoint parsing and the pipeline handle a built
// client sends requests through.
package core
