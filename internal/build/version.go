package build

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// ConfigFolderName is the folder under the user's home directory holding
// the kubecred config and file credential store.
const ConfigFolderName = ".kubecred"

func IsDev() bool {
	return Version == "dev"
}

// BinaryName returns the name of the kubecred binary.
func BinaryName() string {
	if IsDev() {
		return "dkubecred"
	}
	return "kubecred"
}
