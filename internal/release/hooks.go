package release

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/nagare-go/nagare/internal/security"
)

// PluginHook is a pre_release or post_release callback executed as a
// subprocess, recovering the original tool's "runner" hook concept without a
// plugin host.
type PluginHook struct {
	Name           string
	Command        []string
	TimeoutSeconds int
}

func (h PluginHook) timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// HookResult is the outcome of running one PluginHook.
type HookResult struct {
	Name   string
	Output string
	Err    error
}

// runHook executes one hook's command, bounded by its timeout and validated
// through the same argv checks as any other subprocess invocation.
func runHook(ctx context.Context, h PluginHook) HookResult {
	result := HookResult{Name: h.Name}

	if len(h.Command) == 0 {
		return result
	}
	if err := security.ValidateCLIArgs(h.Command); err != nil {
		result.Err = err
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, h.Command[0], h.Command[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	result.Err = cmd.Run()
	result.Output = out.String()
	return result
}

// runPreReleaseHooks runs hooks in declaration order, stopping and returning
// at the first failure: pre-release hooks may abort the release with no
// side-effects.
func runPreReleaseHooks(ctx context.Context, hooks []PluginHook) ([]HookResult, error) {
	results := make([]HookResult, 0, len(hooks))
	for _, h := range hooks {
		r := runHook(ctx, h)
		results = append(results, r)
		if r.Err != nil {
			return results, r.Err
		}
	}
	return results, nil
}

// runPostReleaseHooks runs every hook regardless of earlier failures: a
// hook failure is logged by the caller but never fails an already-succeeded
// release.
func runPostReleaseHooks(ctx context.Context, hooks []PluginHook) []HookResult {
	results := make([]HookResult, 0, len(hooks))
	for _, h := range hooks {
		results = append(results, runHook(ctx, h))
	}
	return results
}
