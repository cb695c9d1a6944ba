package template

import (
	"fmt"
	"text/template"
	"text/template/parse"

	rperrors "github.com/nagare-go/nagare/internal/errors"
)

// SandboxLevel controls which identifiers a user-supplied template may
// reference. No sandbox level ever grants access to a host capability (file,
// process, network) — the FuncMap registered on every *template.Template
// never contains one, regardless of level. Sandbox levels only gate which
// *data fields* a template can read.
type SandboxLevel string

const (
	// SandboxStrict allows only the small set of derived fields documented
	// for version-file templates (Version, PreviousVersion, ShortHash, Date).
	SandboxStrict SandboxLevel = "strict"
	// SandboxModerate additionally allows the full release data model
	// (changes, commit metadata) — the default.
	SandboxModerate SandboxLevel = "moderate"
	// SandboxDisabled skips field validation entirely, trusting the
	// template author. Only appropriate for templates the tool itself
	// ships (the embedded changelog/release-notes templates).
	SandboxDisabled SandboxLevel = "disabled"
)

// strictFields is the field allowlist for SandboxStrict.
var strictFields = map[string]bool{
	"Version": true, "PreviousVersion": true, "ShortHash": true,
	"Date": true, "Major": true, "Minor": true, "Patch": true,
}

// moderateFields extends strictFields with the release/changelog data model:
// the Categories buckets (internal/commit.Categories) and the
// ConventionalCommit accessor methods exposed through them.
var moderateFields = map[string]bool{
	"Changes": true,
	"Features": true, "Fixes": true, "Breaking": true, "Perf": true,
	"Docs": true, "Refactors": true, "Tests": true, "Build": true,
	"CI": true, "Chores": true, "Reverts": true, "Other": true,
	"Type": true, "Scope": true, "Subject": true, "FormattedSubject": true,
	"Body": true, "Footer": true, "IsBreaking": true, "BreakingMessage": true,
	"Hash": true, "ShortHash": true, "Author": true, "AuthorEmail": true,
	"RawMessage": true,
	"Changelog": true, "Summary": true, "Highlights": true,
	"Contributors": true, "ProductName": true, "ReleaseURL": true,
	"RepositoryURL": true, "IssueURL": true, "CompareURL": true,
}

func allowedFieldsFor(level SandboxLevel) map[string]bool {
	switch level {
	case SandboxStrict:
		return strictFields
	case SandboxModerate:
		allowed := make(map[string]bool, len(strictFields)+len(moderateFields))
		for k := range strictFields {
			allowed[k] = true
		}
		for k := range moderateFields {
			allowed[k] = true
		}
		return allowed
	default:
		return nil
	}
}

// MaxTemplateBytes is the default maximum size of a user-supplied template
// source, guarding against pathological inputs.
const MaxTemplateBytes = 1 << 20 // 1 MiB

// ValidateTemplateSecurity walks the parsed template's node tree and rejects
// any field reference not present in the sandbox level's allowlist. It never
// inspects function calls beyond confirming no identifier resolves outside
// the FuncMap plumbing — the FuncMap itself never exposes host capabilities,
// so this check is purely about which data fields are visible.
func ValidateTemplateSecurity(tmpl *template.Template, level SandboxLevel) error {
	const op = "template.ValidateTemplateSecurity"

	if level == SandboxDisabled {
		return nil
	}

	allowed := allowedFieldsFor(level)

	for _, t := range tmpl.Templates() {
		if t.Tree == nil || t.Tree.Root == nil {
			continue
		}
		if err := walkNodeList(t.Tree.Root, allowed); err != nil {
			return rperrors.TemplateWrap(err, op, fmt.Sprintf("template %q failed sandbox validation", t.Name())).WithCode(rperrors.CodeTemplateSecurityViolation)
		}
	}

	return nil
}

func walkNodeList(list *parse.ListNode, allowed map[string]bool) error {
	if list == nil {
		return nil
	}
	for _, n := range list.Nodes {
		if err := walkNode(n, allowed); err != nil {
			return err
		}
	}
	return nil
}

func walkNode(n parse.Node, allowed map[string]bool) error {
	switch node := n.(type) {
	case *parse.ActionNode:
		return walkPipe(node.Pipe, allowed)
	case *parse.IfNode:
		if err := walkPipe(node.Pipe, allowed); err != nil {
			return err
		}
		if err := walkNodeList(node.List, allowed); err != nil {
			return err
		}
		return walkNodeList(node.ElseList, allowed)
	case *parse.RangeNode:
		if err := walkPipe(node.Pipe, allowed); err != nil {
			return err
		}
		if err := walkNodeList(node.List, allowed); err != nil {
			return err
		}
		return walkNodeList(node.ElseList, allowed)
	case *parse.WithNode:
		if err := walkPipe(node.Pipe, allowed); err != nil {
			return err
		}
		if err := walkNodeList(node.List, allowed); err != nil {
			return err
		}
		return walkNodeList(node.ElseList, allowed)
	case *parse.TemplateNode:
		return walkPipe(node.Pipe, allowed)
	}
	return nil
}

func walkPipe(pipe *parse.PipeNode, allowed map[string]bool) error {
	if pipe == nil {
		return nil
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			if err := walkArg(arg, allowed); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkArg(arg parse.Node, allowed map[string]bool) error {
	field, ok := arg.(*parse.FieldNode)
	if !ok {
		return nil
	}
	for _, ident := range field.Ident {
		if !allowed[ident] {
			return fmt.Errorf("field %q is not allowed at this sandbox level", ident)
		}
	}
	return nil
}
