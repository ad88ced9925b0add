// Package prompt asks for the module name and layout on a line-based terminal
// when they were not given on the command line.
package prompt
