// Package version reports what jsonai binary is running.
//
// Release builds stamp the variables below with ldflags:
//
//	-X github.com/Aman-CERP/jsonai/pkg/version.Version=$(VERSION)
//	-X github.com/Aman-CERP/jsonai/pkg/version.Commit=$(COMMIT)
//	-X github.com/Aman-CERP/jsonai/pkg/version.Date=$(DATE)
//
// Binaries built with plain "go install" fall back to the module version
// and VCS stamps recorded by the toolchain.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

const unset = "unknown"

var (
	Version = "dev"
	Commit  = unset
	Date    = unset

	// GoVersion is the toolchain the binary was built with.
	GoVersion = runtime.Version()
)

// BuildInfo is the JSON form of the version command.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

var fillOnce sync.Once

// fill copies module and VCS data from the embedded build info into the
// variables ldflags left at their defaults.
func fill() {
	fillOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fromBuildInfo(bi)
	})
}

func fromBuildInfo(bi *debug.BuildInfo) {
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == unset:
			Commit = s.Value
			if len(Commit) > 7 {
				Commit = Commit[:7]
			}
		case s.Key == "vcs.time" && Date == unset:
			Date = s.Value
		}
	}
}

// String is the one-line form printed by "jsonai version".
func String() string {
	fill()
	return fmt.Sprintf("jsonai %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, GoVersion)
}

// Short returns the bare version, as printed by --version.
func Short() string {
	fill()
	return Version
}

func GetInfo() BuildInfo {
	fill()
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
