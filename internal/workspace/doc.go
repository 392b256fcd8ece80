// Package workspace manages the scoped temp directory for one processing
// run: unique naming, a filesystem lock on the shared root, and guaranteed
// recursive removal so failed runs never leak intermediates.
package workspace
