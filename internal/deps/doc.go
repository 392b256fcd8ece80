// Package deps declares the external binaries trackmix shells out to and
// checks their availability on PATH.
package deps
