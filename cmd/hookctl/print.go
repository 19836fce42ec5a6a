package main

import (
	"fmt"
	"io"

	"github.com/marcelsud/webhook-workflow/hook"
)

func printHook(out io.Writer, n int, h hook.Hook) {
	fmt.Fprintf(out, "\n%d. Hook: %s\n", n, h.ID)
	fmt.Fprintf(out, "   Type:          %s\n", h.TypeID)
	fmt.Fprintf(out, "   Order:         %d\n", h.Order)
	fmt.Fprintf(out, "   Workflow:      %s\n", h.WorkflowTypeID)
	if h.Method != "" {
		fmt.Fprintf(out, "   Method:        %s\n", h.Method)
	}
	if h.URL != "" {
		fmt.Fprintf(out, "   URL:           %s\n", h.URL)
	}
	if h.Text != "" {
		fmt.Fprintf(out, "   Text:          %s\n", h.Text)
	}
	if h.Options.IncludeHeaders || h.Options.IncludeCookies {
		fmt.Fprintf(out, "   Headers:       %t\n", h.Options.IncludeHeaders)
		fmt.Fprintf(out, "   Cookies:       %t\n", h.Options.IncludeCookies)
	}
}
