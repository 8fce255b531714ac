package build

// Controls a build.
//
// Zero values mean "use the documented default". Every option is resolved
// and validated by [Resolve] before any pipeline stage runs; stages only
// ever see the resolved [Config].
type Options struct {
	PythonVersion string // Embeddable runtime version, "x.y.z". Required.
	Arch          string // Target architecture: amd64, arm64, or win32. Defaults to amd64.

	ProjectPath string // Project root. Defaults to the current working directory.
	AppName     string // Human-readable application name. Defaults to the project directory name.
	SourceDir   string // Source directory relative to the project root. Defaults to the project directory name with dashes replaced by underscores.

	RunAsPackage bool     // Run the staged source directory as a package (__main__.py) instead of a file.
	MainFile     string   // Entry-point file relative to SourceDir. Defaults to "main.py". Forced to "__main__.py" in package mode.
	Ignore       []string // Glob patterns excluded during staging, in addition to the defaults.

	Requirements string   // Requirements file relative to the project root. Defaults to "requirements.txt" when it exists; absent means zero dependencies.
	PipArgs      []string // Extra arguments passed to pip install verbatim.

	AppDir      string // Application directory name under build/. Defaults to the app name slug.
	StageDir    string // Subdirectory inside the app directory the sources are staged into. Defaults to the app directory itself; the app slug in package mode.
	PythonDir   string // Runtime subdirectory inside the app directory. Defaults to "python".
	ExeFile     string // Launcher file name. Defaults to "<slug>.exe".
	IconFile    string // Icon (.ico) patched into the launcher. Optional.
	ShowConsole bool   // Attach a console window to the launched app.

	NoArchive bool   // Skip producing the distributable archive.
	Format    string // Archive format: "zip" (default) or "tar.xz".

	Template string // Explicit launcher stub template. Defaults to a lookup in the template search path.

	Digest     string // Expected digest of the runtime archive ("sha256:<hex>"). Empty disables verification.
	CacheDir   string // Persistent download cache. Defaults to the shared user cache.
	BaseURL    string // Runtime distribution mirror. Defaults to python.org.
	GetPipURL  string // URL of the pip bootstrap script. Defaults to bootstrap.pypa.io.
	PruneCache bool   // Remove leftover partial downloads from the cache after the build.
}
