package version

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built softwares version.
	Version = CPSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

const (
	// CPSemVer is the current version of the checkpoint tool.
	CPSemVer = "0.3.0"

	// TableVersion is bumped every time a release ships a new compiled
	// checkpoint table or new calibration statistics.
	TableVersion uint64 = 2
)
