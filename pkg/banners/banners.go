package banners

import (
	"fmt"

	"github.com/common-fate/kubecred/internal/build"
)

func WithVersion() string {
	return fmt.Sprintf("%s version: %s (commit %s, built %s by %s)\n", build.BinaryName(), build.Version, build.Commit, build.Date, build.BuiltBy)
}
