// Package cliconfig resolves the settings shared by the ncdc commands.
//
// Settings are layered with the following precedence (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (NCDC_* prefix)
//  3. The .ncdcrc.yaml settings file in the current directory
//  4. Default values
//
// The source of each value is tracked so verbose output can say where a
// setting came from.
package cliconfig
