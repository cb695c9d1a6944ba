package release

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/security"
)

// RemoteReleaseRequest describes the remote release entry PUBLISH asks the
// forge client to create.
type RemoteReleaseRequest struct {
	Tag            string
	Title          string
	Body           string
	Prerelease     bool
	TimeoutSeconds int
}

// RemoteReleaseResult is what the forge client reports back.
type RemoteReleaseResult struct {
	ID  string
	URL string
}

// ForgeClient creates a release entry on a remote forge (GitHub, GitLab).
// The only implementation in this repo is a subprocess adapter: there is no
// HTTP client here, matching the boundary that keeps the forge's API an
// out-of-scope collaborator invoked only via a configured command.
type ForgeClient interface {
	CreateRelease(ctx context.Context, req RemoteReleaseRequest) (RemoteReleaseResult, error)
}

// CommandForgeClient shells out to a configured command template (e.g. `gh
// release create {{.Tag}} --title {{.Title}} --notes {{.Body}}`) to create
// the remote release. The template is rendered with text/template directly
// here rather than through the sandboxed template.Service, since the forge
// command template is operator configuration, not user-facing content.
type CommandForgeClient struct {
	// Args is the command to run, with the literal placeholders %TAG%,
	// %TITLE%, %BODY%, %PRERELEASE% substituted per-argument before exec.
	Args []string
	// ParseOutput extracts {ID, URL} from the command's combined output.
	// Left nil, CreateRelease reports an empty result on success.
	ParseOutput func(output string) RemoteReleaseResult
}

const (
	placeholderTag        = "%TAG%"
	placeholderTitle       = "%TITLE%"
	placeholderBody        = "%BODY%"
	placeholderPrerelease = "%PRERELEASE%"
)

// CreateRelease runs the configured command with placeholders substituted.
func (c *CommandForgeClient) CreateRelease(ctx context.Context, req RemoteReleaseRequest) (RemoteReleaseResult, error) {
	const op = "release.CreateRelease"

	if len(c.Args) == 0 {
		return RemoteReleaseResult{}, rperrors.New(rperrors.KindConfig, "no forge command configured").WithCode(rperrors.CodeRemoteToolMissing)
	}
	if err := security.ValidateGitRef(req.Tag); err != nil {
		return RemoteReleaseResult{}, err
	}

	prerelease := "false"
	if req.Prerelease {
		prerelease = "true"
	}

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		a = strings.ReplaceAll(a, placeholderTag, req.Tag)
		a = strings.ReplaceAll(a, placeholderTitle, req.Title)
		a = strings.ReplaceAll(a, placeholderBody, req.Body)
		a = strings.ReplaceAll(a, placeholderPrerelease, prerelease)
		args[i] = a
	}
	if err := security.ValidateCLIArgs(args[1:]); err != nil {
		return RemoteReleaseResult{}, err
	}

	timeout := 60 * time.Second
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if _, lookErr := exec.LookPath(args[0]); lookErr != nil {
			return RemoteReleaseResult{}, rperrors.Wrap(err, rperrors.KindNetwork, op, "forge tool not found").WithCode(rperrors.CodeRemoteToolMissing)
		}
		return RemoteReleaseResult{}, rperrors.Wrap(err, rperrors.KindNetwork, op, "remote release creation failed: "+out.String()).WithCode(rperrors.CodeRemoteReleaseFailed)
	}

	if c.ParseOutput != nil {
		return c.ParseOutput(out.String()), nil
	}
	return RemoteReleaseResult{}, nil
}
