package catsort

// Version is the library and CLI version, overridden at link time.
var Version = "v0.1.0-dev"
