package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/hookio"
)

var (
	hooksSettingsPath string
	hooksBinary       string
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Install the agent-host hook wiring",
	Long: `Wire the gate into the agent host's hook configuration.

Installed hooks run 'ig hook pre' before every mutating tool call and
'ig hook post' after, so the gate intercepts the agent without the agent
cooperating. Install is idempotent and preserves unrelated hooks.`,
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register gate hooks in the host settings",
	RunE:  runHooksInstall,
}

var hooksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the hook configuration the gate installs",
	RunE:  runHooksShow,
}

func init() {
	hooksInstallCmd.Flags().StringVar(&hooksSettingsPath, "settings", "", "Host settings file (default: ~/.claude/settings.json)")
	hooksInstallCmd.Flags().StringVar(&hooksBinary, "binary", "", "Gate binary to invoke from hooks (default: this executable)")

	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksShowCmd)
	rootCmd.AddCommand(hooksCmd)
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	path := hooksSettingsPath
	if path == "" {
		var err error
		path, err = hookio.SettingsPath()
		if err != nil {
			return err
		}
	}

	binary := hooksBinary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			binary = "ig"
		} else {
			binary = exe
		}
	}

	if GetDryRun() {
		fmt.Printf("Would install gate hooks for %q into %s\n", binary, path)
		return nil
	}

	raw, err := hookio.LoadSettings(path)
	if err != nil {
		return err
	}
	hookio.InstallGateHooks(raw, binary)
	if err := hookio.SaveSettings(path, raw); err != nil {
		return err
	}

	fmt.Printf("Installed gate hooks into %s\n", path)
	return nil
}

func runHooksShow(cmd *cobra.Command, args []string) error {
	binary := hooksBinary
	if binary == "" {
		binary = "ig"
	}
	return printJSON(hookio.GateHooks(binary))
}
