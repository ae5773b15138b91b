package governance

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/intentgate/cli/internal/types"
)

// gitTimeout bounds the revision lookup so a hung git never stalls recording.
const gitTimeout = 5 * time.Second

// GitRevision returns the current HEAD commit hash, or RevisionUnknown when
// the workspace is not a git repository or git is unavailable. Trace entries
// stay valid either way; the revision is an annotation, not a dependency.
func GitRevision() string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", "rev-parse", "HEAD").Output()
	if err != nil {
		return types.RevisionUnknown
	}
	rev := strings.TrimSpace(string(out))
	if rev == "" {
		return types.RevisionUnknown
	}
	return rev
}

// readWorkspaceFile is the default target reader: plain filesystem reads
// relative to the process working directory.
func readWorkspaceFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
