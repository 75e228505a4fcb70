package config

// Config is the companion configuration file consumed by the installer
// scripts. The dispatcher only requires that it exists and validates before
// an installer that needs it runs; the env command renders it as exports.
type Config struct {
	BaseDir     string             `yaml:"base_dir"`
	Versions    map[string]Version `yaml:"versions"`
	RemoteHosts map[string]string  `yaml:"remote_hosts"`

	// Path is the absolute path the file was loaded from.
	Path string `yaml:"-"`
}

// Version holds the install layout of one OpenCV major version ("3.4", "4.x", "5.x").
// Relative paths are resolved against Config.BaseDir.
type Version struct {
	CMakeDir     string   `yaml:"cmake_dir"`     // Directory holding OpenCVConfig.cmake
	IncludeDir   string   `yaml:"include_dir"`   // Main header directory
	LinkPaths    []string `yaml:"link_paths"`    // Shared-library search path
	IncludePaths []string `yaml:"include_paths"` // Extra include directories
}
