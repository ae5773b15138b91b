package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/governance"
	"github.com/intentgate/cli/internal/types"
)

var (
	precheckOp     string
	precheckTarget string
	precheckYes    bool
)

var precheckCmd = &cobra.Command{
	Use:   "precheck",
	Short: "Gate a proposed operation",
	Long: `Run the full pre-operation gate for one proposed operation.

Checks run in a fixed order: active intent, protected list, planning
prerequisites, staleness, scope, then the one-time approval. The first
failing check denies the operation.

Without --yes, a first mutating operation under an intent prompts for
approval on the terminal. The approval sticks for the rest of the session.

Exits non-zero on deny.

Examples:
  ig precheck --op write --target src/config.ts
  ig precheck --op exec --yes`,
	RunE: runPrecheck,
}

func init() {
	precheckCmd.Flags().StringVar(&precheckOp, "op", "write", "Operation kind (write, edit, patch, exec, read, list, search)")
	precheckCmd.Flags().StringVar(&precheckTarget, "target", "", "Workspace-relative target path (file-targeted operations)")
	precheckCmd.Flags().BoolVarP(&precheckYes, "yes", "y", false, "Approve without prompting")
	rootCmd.AddCommand(precheckCmd)
}

func runPrecheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}
	engine := buildEngine(cfg, store)

	state, session, err := loadSession(cfg, store)
	if err != nil {
		return err
	}

	var approver governance.Approver
	if precheckYes {
		approver = governance.ApproverFunc(func(types.Intent, types.OperationKind, string) (bool, error) {
			return true, nil
		})
	} else {
		approver = governance.ApproverFunc(promptApproval)
	}

	decision := engine.PreCheck(types.OperationKind(precheckOp), precheckTarget, session, approver)

	// Persist even on deny: a granted approval followed by a scope denial on
	// a later call must not re-prompt.
	if err := saveSession(store, state, session); err != nil {
		return err
	}

	if GetOutput() == "json" {
		if err := printJSON(decision); err != nil {
			return err
		}
		if !decision.Allowed {
			os.Exit(1)
		}
		return nil
	}

	if decision.Allowed {
		fmt.Println("ALLOW")
		return nil
	}
	fmt.Printf("DENY [%s] %s\n", decision.Deny.Kind, decision.Deny.Message)
	if decision.Deny.SuggestedAction != "" {
		fmt.Printf("  %s\n", decision.Deny.SuggestedAction)
	}
	os.Exit(1)
	return nil
}

// promptApproval asks on the terminal; anything but y/yes rejects.
func promptApproval(intent types.Intent, op types.OperationKind, target string) (bool, error) {
	fmt.Printf("Intent %s (%s) wants to %s", intent.ID, intent.Name, op)
	if target != "" {
		fmt.Printf(" %s", target)
	}
	fmt.Printf(". Approve for this session? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
