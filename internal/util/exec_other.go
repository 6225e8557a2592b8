// BYZRA ⸻ internal/util/exec_other.go
// no process groups outside unix

//go:build !unix

package util

import "os/exec"

func isolate(*exec.Cmd) {}
