package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"

	"github.com/runger/symnav/internal/outline"
)

// Tags decodes universal-ctags JSON lines (--output-format=json). Lines
// that are not tag entries (pseudo tags, warnings) are skipped.
type Tags struct{}

func (Tags) Name() string { return "ctags" }

type tagLine struct {
	Type      string `json:"_type"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Kind      string `json:"kind"`
	Scope     string `json:"scope"`
	ScopeKind string `json:"scopeKind"`
	Signature string `json:"signature"`
}

func (Tags) Decode(data []byte) (Listing, error) {
	var listing Listing
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var tag tagLine
		if err := json.Unmarshal(line, &tag); err != nil {
			continue
		}
		if tag.Type != "tag" || tag.Name == "" {
			continue
		}
		if listing.Buffer == "" {
			listing.Buffer = tag.Path
		}
		listing.Symbols = append(listing.Symbols, outline.Symbol{
			Name:   tag.Name,
			Detail: tagDetail(tag),
			Kind:   kindFromTag(tag.Kind),
			Path:   tag.Path,
			Line:   tag.Line,
			Col:    1,
			Depth:  scopeDepth(tag.Scope),
		})
	}
	if err := scanner.Err(); err != nil {
		return Listing{}, fmt.Errorf("scan ctags output: %w", err)
	}
	return listing, nil
}

// RunTags executes the configured ctags command line against target and
// returns its raw output for Tags.Decode. cmdline is shell-quoted user
// configuration, e.g. `ctags --output-format=json --sort=no -f -`.
func RunTags(ctx context.Context, cmdline, target string) ([]byte, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse tags command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("parse tags command: empty command line")
	}
	args = append(args, target)

	out, err := exec.CommandContext(ctx, args[0], args[1:]...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("run %s: %w: %s", args[0], err,
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("run %s: %w", args[0], err)
	}
	return out, nil
}

func tagDetail(tag tagLine) string {
	if tag.Signature != "" {
		return tag.Signature
	}
	if tag.Scope != "" {
		return tag.ScopeKind + " " + tag.Scope
	}
	return ""
}

// scopeDepth derives the nesting level from the scope path. Universal
// ctags joins scopes with "." or, for some languages, "::".
func scopeDepth(scope string) int {
	if scope == "" {
		return 0
	}
	scope = strings.ReplaceAll(scope, "::", ".")
	return strings.Count(scope, ".") + 1
}

func kindFromTag(kind string) outline.Kind {
	switch strings.ToLower(kind) {
	case "function", "func", "subroutine":
		return outline.KindFunction
	case "method":
		return outline.KindMethod
	case "class":
		return outline.KindClass
	case "struct":
		return outline.KindStruct
	case "interface":
		return outline.KindInterface
	case "enum":
		return outline.KindEnum
	case "enumerator", "enummember":
		return outline.KindEnumMember
	case "member", "field":
		return outline.KindField
	case "property":
		return outline.KindProperty
	case "variable", "var":
		return outline.KindVariable
	case "constant", "const", "macro":
		return outline.KindConstant
	case "package", "module":
		return outline.KindModule
	case "namespace":
		return outline.KindNamespace
	case "typedef", "type", "typealias":
		return outline.KindTypeParameter
	default:
		return outline.KindTag
	}
}
