// Package buildinfo carries release metadata stamped into socialscope
// binaries with -ldflags "-X". Development builds leave them empty and fall
// back to the module's embedded build info.
package buildinfo

var (
	Version = ""
	Commit  = ""
	Date    = ""
)
