package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	versionJSONFlag  bool
	versionShortFlag bool
)

// versionInfo is what `hitcheck version --json` emits. CI jobs pin the
// engine version through it before trusting recorded history.
type versionInfo struct {
	Version  string `json:"version"`
	Built    string `json:"built"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:  version,
		Built:    buildTime,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version and build details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(cmd.OutOrStdout(), currentVersion(), versionShortFlag, versionJSONFlag)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShortFlag, "short", false, "Print only the version string")
	versionCmd.Flags().BoolVar(&versionJSONFlag, "json", false, "Print version details as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

func writeVersion(w io.Writer, info versionInfo, short, asJSON bool) error {
	switch {
	case short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := fmt.Fprintf(w, "hitcheck %s (built %s, %s %s)\n", info.Version, info.Built, info.Go, info.Platform)
	return err
}
