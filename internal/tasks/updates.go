package tasks

import (
	"fmt"

	"github.com/vaultx/vaultx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadSource Phase = iota
	Transform
	Report
	WriteTarget
	Compare
)

func (p Phase) String() string {
	switch p {
	case ReadSource:
		return "read_source"
	case Transform:
		return "transform"
	case Report:
		return "report"
	case WriteTarget:
		return "write_target"
	case Compare:
		return "compare"
	default:
		return ""
	}
}

func readAccountsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadSource,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Found %d accounts", count),
	}
}

func readGroupsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadSource,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Found %d groups", count),
	}
}

func stripCookiesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transform,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Stripping cookies from %d accounts...", count),
	}
}

func accountSummaryUpdate(step, total int, acc models.Account) ProgressUpdate {
	msg := fmt.Sprintf("Account: %s (%s)", acc.ID, acc.RoleName)
	if acc.Cookies != nil {
		msg = fmt.Sprintf("Account: %s (%s, %d cookies)", acc.ID, acc.RoleName, len(acc.Cookies))
	}
	return ProgressUpdate{
		Phase:   Report,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    acc,
	}
}

func groupSummaryUpdate(step, total int, grp models.Group) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Report,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Group: %s (%s, %d accounts)", grp.ID, grp.Name, len(grp.AccountIDs)),
		Data:    grp,
	}
}

func wroteAccountsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteTarget,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Wrote %d accounts", count),
	}
}

func wroteGroupsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteTarget,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Wrote %d groups", count),
	}
}

func compareUpdate(entity string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d %s...", count, entity),
	}
}
