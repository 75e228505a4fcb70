package main

import (
	"os"

	"opencv-ci/cmd" // CLI commands and exit-code mapping
)

// main is the program entry point for opencv-ci, the CI bootstrap that
// installs OpenCV on the build host before the project is compiled.
//
// With no arguments it:
//   - classifies the host (OSTYPE, or the Go runtime OS when OSTYPE is not exported)
//     as Linux, macOS or Windows, failing fast on BSD and unknown systems
//   - picks the install variant from VCPKG_VERSION / BREW_OPENCV_VERSION
//   - on Linux, frees disk space on hosted runners (best effort) and rewrites an
//     `sccache` compiler launcher to its absolute path
//   - on Windows, pins the LLVM toolchain version
//   - runs exactly one sibling installer script and exits with its status
//
// The `plan` subcommand prints that decision without acting on it, and `env`
// renders the companion configuration file as shell exports.
func main() {
	os.Exit(cmd.Execute())
}
