/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implement

import (
	"fmt"
	"strings"

	"chainguard.dev/devloop/agents/planner"
)

func commitMessage(item planner.WorkItem) string {
	return fmt.Sprintf(`feat: Implement issue #%[1]d

%[2]s

- Auto-generated by Developer Agent
- Implements features from issue #%[1]d

Closes #%[1]d
`, item.Number, item.Title)
}

func pullRequestTitle(item planner.WorkItem) string {
	return fmt.Sprintf("feat: %s (Issue #%d)", item.Title, item.Number)
}

func pullRequestBody(item planner.WorkItem, created, modified []planner.FileChangeSpec) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## 🤖 Auto-generated Implementation\n\nThis PR was automatically generated by the Developer Agent to implement:\n**Issue #%d**: %s\n\n### 📋 Changes\n\n", item.Number, item.Title)

	if len(created) > 0 {
		sb.WriteString("#### Files Created:\n")
		for _, s := range created {
			fmt.Fprintf(&sb, "- `%s` - %s\n", s.Path, s.Description())
		}
	}
	if len(modified) > 0 {
		sb.WriteString("\n#### Files Modified:\n")
		for _, s := range modified {
			fmt.Fprintf(&sb, "- `%s` - %s\n", s.Path, s.Description())
		}
	}

	fmt.Fprintf(&sb, "\n### 🔗 Related Issue\n\nCloses #%d\n\n---\n\n**🤖 Generated by Developer Agent**\n", item.Number)
	return sb.String()
}

func createdComment(url string) string {
	return fmt.Sprintf("🤖 **Developer Agent has created a Pull Request!**\n\nImplementation PR: %s\n\nPlease review the changes and provide feedback!", url)
}

func failureComment(err error) string {
	return fmt.Sprintf("🤖 **Developer Agent encountered an error:**\n\n```\n%v\n```\n\nPlease check the workflow logs for details.", err)
}
