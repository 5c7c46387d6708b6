// Package deps resolves the external executables encodeflow launches.
package deps
