package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// composeNote builds the single note appended to a ticket per processing
// pass: the downgrade rationale when the priority changed, followed by the
// assignment section with the diagnostic narrative.
func composeNote(ticket domain.Ticket, adjusted domain.Priority, downgraded bool, assignment domain.Assignment, analysis domain.AIAnalysis, at time.Time) string {
	var b strings.Builder

	if downgraded {
		b.WriteString("Priority Adjustment Notice\n\n")
		fmt.Fprintf(&b, "This ticket priority has been adjusted from %s to %s based on our incident management policy.\n\n",
			ticket.Priority, adjusted)
		environment := ticket.Environment
		if environment == "" {
			environment = "Not specified"
		}
		fmt.Fprintf(&b, "Reason: Non-production environment issue\nEnvironment: %s\n", environment)
		b.WriteString("Policy: P1 (Critical) priority is reserved for production environment incidents that directly impact end users and business operations.\n\n")
		b.WriteString("If this issue affects production services, add a comment explaining the production impact and contact the DevOps team for escalation.\n\n---\n\n")
	}

	b.WriteString("DevOps Ticket Assignment\n\n")
	fmt.Fprintf(&b, "Assigned to: %s (%s)\nReason: %s\n\n", assignment.Member.Name, assignment.Type, assignment.Reason)
	b.WriteString("AI Analysis & Initial Response:\n")
	b.WriteString(analysis.Text)
	b.WriteString("\n\nNext Steps:\n")
	b.WriteString("- Your assigned responder will investigate and provide updates\n")
	b.WriteString("- Add any additional information as comments\n\n")
	fmt.Fprintf(&b, "System: DevOps Automation\nTimestamp: %s", at.Format(time.RFC3339))
	return b.String()
}
