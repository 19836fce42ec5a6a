package main

import (
	"fmt"
	"os"
)

/* hookctl manages hook definitions offline
 * Usage: hookctl validate hooks.yaml
 *        hookctl import hooks.yaml        (into HOOK_SOURCE=redis|postgres|sqlite)
 *        hookctl match --kind slack --method POST --path /cmd --text "deploy"
 *        hookctl workflow register wf-deploy
 */

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
