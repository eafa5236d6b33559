package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// Issue is a catalog authoring problem with optional location metadata.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Report captures the outcome of linting a catalog.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// LintCatalog reports schema mistakes that would otherwise surface only at
// runtime: duplicate lookup keys, unnamed fields, broken patterns, option
// fields without options and labels with no display text.
func LintCatalog(catalog schema.Catalog) Report {
	var issues []Issue
	add := func(pointer, format string, args ...any) {
		issues = append(issues, IssueAt(pointer, fmt.Sprintf(format, args...)))
	}

	services := make(map[string]int, len(catalog.Services))
	for si, service := range catalog.Services {
		base := "/services/" + strconv.Itoa(si)
		name := strings.TrimSpace(service.Name)
		switch {
		case name == "":
			add(base+"/name", "service name is empty")
		default:
			if prev, dup := services[name]; dup {
				add(base+"/name", "duplicate service name %q (first declared at index %d)", name, prev)
			} else {
				services[name] = si
			}
		}
		if service.Label.IsZero() {
			add(base+"/label", "service %q has no label in any locale", name)
		}

		providers := make(map[string]int, len(service.Providers))
		for pi, provider := range service.Providers {
			pbase := base + "/providers/" + strconv.Itoa(pi)
			pname := strings.TrimSpace(provider.Name)
			if pname == "" {
				add(pbase+"/name", "provider name is empty")
			} else if prev, dup := providers[pname]; dup {
				add(pbase+"/name", "duplicate provider name %q (first declared at index %d)", pname, prev)
			} else {
				providers[pname] = pi
			}
			issues = append(issues, lintFields(pbase, provider.Fields)...)
		}
	}

	sortIssues(issues)
	return Report{Valid: len(issues) == 0, Issues: issues}
}

func lintFields(base string, fields []schema.FieldSchema) []Issue {
	var issues []Issue
	seen := make(map[string]int, len(fields))
	for fi, field := range fields {
		fbase := base + "/required_fields/" + strconv.Itoa(fi)
		if !field.Named() {
			issues = append(issues, IssueAt(fbase+"/name", "field has no name and will be dropped from submissions"))
		} else {
			name := strings.TrimSpace(field.Name)
			if prev, dup := seen[name]; dup {
				issues = append(issues, IssueAt(fbase+"/name", fmt.Sprintf("duplicate field name %q (first declared at index %d)", name, prev)))
			} else {
				seen[name] = fi
			}
		}
		if field.Label.IsZero() {
			issues = append(issues, IssueAt(fbase+"/label", "field has no label in any locale"))
		}
		if field.HasPattern() {
			if _, err := CompilePattern(strings.TrimSpace(field.Pattern)); err != nil {
				issues = append(issues, IssueAt(fbase+"/validation", fmt.Sprintf("pattern does not compile: %v", err)))
			}
		}
		if field.MaxLength < 0 {
			issues = append(issues, IssueAt(fbase+"/max_length", "max_length must not be negative"))
		}
		if field.EffectiveKind().RequiresOptions() && len(field.Options) == 0 {
			issues = append(issues, IssueAt(fbase+"/options", "option field declares no options"))
		}
		for oi, option := range field.Options {
			if option.Value() == "" {
				issues = append(issues, IssueAt(fbase+"/options/"+strconv.Itoa(oi), "option has neither label nor name"))
			}
		}
	}
	return issues
}

// IssueAt builds an Issue for a JSON pointer into the catalog document.
func IssueAt(pointer, message string) Issue {
	pointer = trimPointer(pointer)
	return Issue{
		Path:    pointer,
		Field:   FieldPathFromPointer(pointer),
		Message: strings.TrimSpace(message),
	}
}

// FieldPathFromPointer renders a JSON pointer in dotted form with indices in
// brackets, e.g. /services/0/name becomes services[0].name.
func FieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(trimmed, "/") {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment == "" {
			continue
		}
		if isNumeric(segment) {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return comparePointers(issues[i].Path, issues[j].Path) < 0
	})
}

// comparePointers orders pointers segment by segment, numerically where both
// segments are indices.
func comparePointers(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "/"), "/")
	bs := strings.Split(strings.TrimPrefix(b, "/"), "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		if isNumeric(as[i]) && isNumeric(bs[i]) {
			ai, _ := strconv.Atoi(as[i])
			bi, _ := strconv.Atoi(bs[i])
			if ai < bi {
				return -1
			}
			return 1
		}
		return strings.Compare(as[i], bs[i])
	}
	return len(as) - len(bs)
}

func trimPointer(pointer string) string {
	if pointer == "" {
		return ""
	}
	trimmed := strings.TrimRight(pointer, ".)];,")
	return strings.TrimSpace(trimmed)
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
