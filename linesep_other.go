//go:build !windows

package gridedit

// LineSeparator is the row separator used for clipboard export.
const LineSeparator = "\n"
