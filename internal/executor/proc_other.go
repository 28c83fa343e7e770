//go:build !unix

package executor

import "os/exec"

// isolate keeps exec's default cancellation, which kills only the direct child.
func isolate(cmd *exec.Cmd) {}
