package deps

import (
	"github.com/0Bleak/crun/proc"
)

// PackageManager is a system package manager crun knows how to drive.
type PackageManager struct {
	// Name is the executable used to detect and run the manager.
	Name string

	// InstallArgs are passed before the package name to install a package
	// non-interactively.
	InstallArgs []string

	// Packages maps tool names to package names where they differ.
	Packages map[string]string

	// NeedsRoot indicates that installs must run as root (via sudo when
	// crun is not already root).
	NeedsRoot bool
}

// PackageFor returns the package that provides a tool.
func (pm *PackageManager) PackageFor(tool string) string {
	if pkg, ok := pm.Packages[tool]; ok {
		return pkg
	}

	return tool
}

// InstallCommand builds the command that installs a tool.
func (pm *PackageManager) InstallCommand(tool string, useSudo bool) *proc.Command {
	args := append(append([]string{}, pm.InstallArgs...), pm.PackageFor(tool))

	if useSudo {
		return &proc.Command{Name: "sudo", Args: append([]string{pm.Name}, args...)}
	}

	return &proc.Command{Name: pm.Name, Args: args}
}

// PackageManagers lists the supported package managers in detection order.
var PackageManagers = []*PackageManager{
	{
		Name:        "apt-get",
		InstallArgs: []string{"install", "-y"},
		Packages:    map[string]string{"clang++": "clang"},
		NeedsRoot:   true,
	},
	{
		Name:        "dnf",
		InstallArgs: []string{"install", "-y"},
		Packages:    map[string]string{"g++": "gcc-c++", "clang++": "clang", "clang-tidy": "clang-tools-extra"},
		NeedsRoot:   true,
	},
	{
		Name:        "yum",
		InstallArgs: []string{"install", "-y"},
		Packages:    map[string]string{"g++": "gcc-c++", "clang++": "clang", "clang-tidy": "clang-tools-extra"},
		NeedsRoot:   true,
	},
	{
		Name:        "pacman",
		InstallArgs: []string{"-S", "--noconfirm", "--needed"},
		Packages:    map[string]string{"g++": "gcc", "clang++": "clang", "clang-tidy": "clang"},
		NeedsRoot:   true,
	},
	{
		Name:        "zypper",
		InstallArgs: []string{"--non-interactive", "install"},
		Packages:    map[string]string{"g++": "gcc-c++", "clang++": "clang", "clang-tidy": "clang-tools"},
		NeedsRoot:   true,
	},
	{
		Name:        "apk",
		InstallArgs: []string{"add"},
		Packages:    map[string]string{"clang++": "clang", "clang-tidy": "clang-extra-tools"},
		NeedsRoot:   true,
	},
	{
		Name:        "brew",
		InstallArgs: []string{"install"},
		Packages:    map[string]string{"g++": "gcc", "clang": "llvm", "clang++": "llvm", "clang-tidy": "llvm"},
	},
}

// DetectPackageManager returns the first supported package manager found on
// the host.
func DetectPackageManager(host proc.Host) (*PackageManager, bool) {
	for _, pm := range PackageManagers {
		if proc.Present(host, pm.Name) {
			return pm, true
		}
	}

	return nil, false
}
