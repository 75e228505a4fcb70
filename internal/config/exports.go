package config

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

var exportsTemplate = template.Must(template.New("exports").Funcs(template.FuncMap{
	"quote": shellQuote,
}).Parse(`# OpenCV {{ .Version }} from {{ .Source }}
export OpenCV_DIR={{ quote .CMakeDir }}
export OPENCV_INCLUDE_PATHS={{ quote .IncludePaths }}
export OPENCV_LINK_PATHS={{ quote .LinkPaths }}
{{- if .LinkPaths }}
export LD_LIBRARY_PATH={{ quote .LibraryPath }}"${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}"
{{- end }}
{{- range .Remotes }}
export {{ .Name }}={{ quote .Address }}
{{- end }}
`))

type exportsData struct {
	Version      string
	Source       string
	CMakeDir     string
	IncludePaths string
	LinkPaths    string
	LibraryPath  string
	Remotes      []remoteExport
}

type remoteExport struct {
	Name    string
	Address string
}

// WriteExports renders the shell exports for one major version to w.
func (c *Config) WriteExports(w io.Writer, version string) error {
	v, ok := c.Versions[version]
	if !ok {
		return fmt.Errorf("version %q not configured (have %s)", version, strings.Join(c.VersionNames(), ", "))
	}

	includes := []string{c.Resolve(v.IncludeDir)}
	for _, p := range v.IncludePaths {
		includes = append(includes, c.Resolve(p))
	}
	links := make([]string, 0, len(v.LinkPaths))
	for _, p := range v.LinkPaths {
		links = append(links, c.Resolve(p))
	}

	data := exportsData{
		Version:      version,
		Source:       c.Path,
		CMakeDir:     c.Resolve(v.CMakeDir),
		IncludePaths: strings.Join(includes, ","),
		LinkPaths:    strings.Join(links, ","),
		LibraryPath:  strings.Join(links, ":"),
	}
	for _, name := range sortedKeys(c.RemoteHosts) {
		data.Remotes = append(data.Remotes, remoteExport{
			Name:    RemoteHostVar(name),
			Address: c.RemoteHosts[name],
		})
	}

	return exportsTemplate.Execute(w, data)
}

// RemoteHostVar returns the variable name a remote host is exported under,
// e.g. "arm-builder" becomes OPENCV_CI_REMOTE_ARM_BUILDER.
func RemoteHostVar(name string) string {
	upper := strings.ToUpper(name)
	return "OPENCV_CI_REMOTE_" + strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, upper)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
