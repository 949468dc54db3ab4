package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/buildinfo"
	"github.com/aidanlsb/socialscope/internal/ui"
)

const defaultModulePath = "github.com/aidanlsb/socialscope"

type versionInfo struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show socialscope version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}
		if versionShort {
			fmt.Println(info.Version)
			return nil
		}

		fmt.Printf("socialscope %s\n", info.Version)
		fmt.Print(versionTable(info))
		return nil
	},
}

func versionTable(info versionInfo) string {
	table := ui.NewTable(2)
	table.AddRow(ui.Hint("module"), info.ModulePath)
	if info.Commit != "" {
		table.AddRow(ui.Hint("commit"), info.Commit)
	}
	if info.CommitTime != "" {
		table.AddRow(ui.Hint("commit time"), info.CommitTime)
	}
	table.AddRow(ui.Hint("go"), info.GoVersion)
	table.AddRow(ui.Hint("platform"), info.GOOS+"/"+info.GOARCH)
	table.AddRow(ui.Hint("modified"), fmt.Sprintf("%t", info.Modified))
	return table.String()
}

// currentVersionInfo reports the embedded module build info, topped up with
// any ldflags values for fields the toolchain left empty.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		applyLdflagsFallback(&info)
		return info
	}
	if bi.Main.Path != "" {
		info.ModulePath = bi.Main.Path
	}
	info.Version = normalizeVersion(bi.Main.Version)
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}

	settings := buildSettings(bi)
	for key, dst := range map[string]*string{"GOOS": &info.GOOS, "GOARCH": &info.GOARCH} {
		if v := settings[key]; v != "" {
			*dst = v
		}
	}
	info.Commit = settings["vcs.revision"]
	info.CommitTime = settings["vcs.time"]
	info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
	applyLdflagsFallback(&info)
	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func buildSettings(bi *debug.BuildInfo) map[string]string {
	out := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		out[s.Key] = s.Value
	}
	return out
}

// applyLdflagsFallback fills gaps from values injected at release build time.
func applyLdflagsFallback(info *versionInfo) {
	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" && buildinfo.Commit != "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" && buildinfo.Date != "" {
		info.CommitTime = buildinfo.Date
	}
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version")
	rootCmd.AddCommand(versionCmd)
}
