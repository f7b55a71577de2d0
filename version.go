package main

// _version is the version of chromatex.
// It's set during releases to the release version.
var _version = "0.3.0"
