package main

import "runtime/debug"

// version is stamped by release builds of pontus-infra:
//
//	go build -ldflags "-X main.version=v0.3.0" ./cmd/pontus-infra
var version string

// getVersion reports the stamped release, falling back to the module version when the
// binary was installed with "go install ...@vX.Y.Z", and to "dev" for source builds.
func getVersion() string {
	switch {
	case version != "":
		return version
	case moduleVersion() != "":
		return moduleVersion()
	default:
		return "dev"
	}
}

func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}
