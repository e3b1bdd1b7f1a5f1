// Package tuistgraph derives test schemes from the JSON document written by
// `tuist graph -f json`.
//
// The document is read through gjson so every field is an optional lookup:
// a missing or oddly-typed node contributes nothing instead of failing the
// whole scan.
package tuistgraph

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// TestSuffixes are stripped from test target names, in order, to infer the
// scheme that owns them. The first matching suffix wins.
var TestSuffixes = []string{
	"IntegrationTests",
	"SnapshotTests",
	"UITests",
	"Tests",
}

// testProducts are the product kinds that mark a target as a test bundle.
var testProducts = map[string]bool{
	"unitTests": true,
	"uiTests":   true,
}

// Scheme is a named group of test targets.
type Scheme struct {
	Name        string
	TestTargets []string
}

// IsGraph reports whether doc is a JSON object with a "projects" object.
func IsGraph(doc []byte) bool {
	if !gjson.ValidBytes(doc) {
		return false
	}
	return gjson.GetBytes(doc, "projects").IsObject()
}

// DeriveSchemes merges explicitly declared schemes that have a test action
// with schemes inferred from test target names. The result is sorted by
// name and each scheme's targets are sorted; a scheme name appears once no
// matter how many sources contributed to it. A document without a
// "projects" object yields no schemes.
func DeriveSchemes(doc []byte) []Scheme {
	if !gjson.ValidBytes(doc) {
		return []Scheme{}
	}
	projects := gjson.GetBytes(doc, "projects")
	if !projects.IsObject() {
		return []Scheme{}
	}

	acc := make(schemeSet)
	projects.ForEach(func(_, project gjson.Result) bool {
		collectExplicit(acc, project)
		collectInferred(acc, project)
		return true
	})
	return acc.sorted()
}

// schemeSet maps scheme name to the set of its test targets.
type schemeSet map[string]map[string]struct{}

func (s schemeSet) add(scheme string, targets ...string) {
	set, ok := s[scheme]
	if !ok {
		set = make(map[string]struct{})
		s[scheme] = set
	}
	for _, t := range targets {
		set[t] = struct{}{}
	}
}

func (s schemeSet) sorted() []Scheme {
	out := make([]Scheme, 0, len(s))
	for name, set := range s {
		targets := make([]string, 0, len(set))
		for t := range set {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		out = append(out, Scheme{Name: name, TestTargets: targets})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func collectExplicit(acc schemeSet, project gjson.Result) {
	schemes := project.Get("schemes")
	if !schemes.IsArray() {
		return
	}
	schemes.ForEach(func(_, scheme gjson.Result) bool {
		if !scheme.IsObject() {
			return true
		}
		action := scheme.Get("testAction")
		if !action.Exists() || action.Type == gjson.Null {
			return true
		}
		name := scheme.Get("name")
		if name.Type != gjson.String {
			return true
		}
		acc.add(name.String(), testActionTargets(action)...)
		return true
	})
}

// testActionTargets reads testAction.targets[].target.name.
func testActionTargets(action gjson.Result) []string {
	refs := action.Get("targets")
	if !refs.IsArray() {
		return nil
	}
	var names []string
	refs.ForEach(func(_, ref gjson.Result) bool {
		if !ref.IsObject() {
			return true
		}
		if name := ref.Get("target.name"); name.Type == gjson.String {
			names = append(names, name.String())
		}
		return true
	})
	return names
}

func collectInferred(acc schemeSet, project gjson.Result) {
	targets := project.Get("targets")
	if !targets.IsObject() {
		return
	}
	targets.ForEach(func(key, target gjson.Result) bool {
		product := target.Get("product")
		if product.Type != gjson.String || !testProducts[product.String()] {
			return true
		}
		name := key.String()
		if scheme, ok := InferSchemeName(name); ok {
			acc.add(scheme, name)
		}
		return true
	})
}

// InferSchemeName strips the first matching TestSuffixes entry from a test
// target name. It fails when no suffix matches or nothing would remain.
func InferSchemeName(target string) (string, bool) {
	for _, suffix := range TestSuffixes {
		if strings.HasSuffix(target, suffix) && len(target) > len(suffix) {
			return strings.TrimSuffix(target, suffix), true
		}
	}
	return "", false
}

// Find returns the scheme with the given name.
func Find(schemes []Scheme, name string) (Scheme, bool) {
	for _, s := range schemes {
		if s.Name == name {
			return s, true
		}
	}
	return Scheme{}, false
}
