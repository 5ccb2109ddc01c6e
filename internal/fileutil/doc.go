// Package fileutil holds small file helpers shared by the catalog and the
// CLI.
package fileutil
