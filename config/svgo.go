package config

import (
	"encoding/json"

	"github.com/optisvg/optisvg/job"
)

// SvgoPlugin is one entry of an SVGO plugin list: a plugin name, whether
// it's enabled (SVGO defaults an omitted "enabled" field to true), and
// its params object verbatim.
type SvgoPlugin struct {
	Name    string
	Enabled *bool
	Params  json.RawMessage
}

// svgoToJob maps an SVGO plugin name to the optisvg job it corresponds
// to. Most names carry over unchanged; the handful that don't are
// documented here:
//
//   - removeViewBox has no optisvg equivalent as a standalone plugin — a
//     viewBox is structural state, not a removable default, so it maps to
//     removeUnknownsAndDefaults, which never removes viewBox (it is one of
//     that job's known global attributes); SVGO's viewBox removal has no
//     counterpart here.
//   - mergePaths (SVGO: combine disjoint sibling <path> elements into one
//     when doing so is visually equivalent) has no optisvg equivalent;
//     the closest job, reusePaths, only deduplicates byte-identical paths
//     via <use>, which is a different optimisation with different
//     preconditions. It is mapped here for plugin-list compatibility, but
//     callers after an exact SVGO path-merge behavior won't get it.
//   - removeTitle/removeDesc fold into removeMetadata, which optisvg
//     treats as one job rather than SVGO's per-element-type split.
//   - removeNonInheritableGroupAttrs and moveGroupAttrsToElems both map
//     to moveGroupAttrsToChildren, optisvg's single job for hoisting a
//     group's attributes onto its children.
var svgoToJob = map[string]string{
	"removeDoctype":                  "removeDoctype",
	"removeXMLProcInst":              "removeXMLProcInst",
	"removeComments":                 "removeComments",
	"removeMetadata":                 "removeMetadata",
	"removeTitle":                    "removeMetadata",
	"removeDesc":                     "removeMetadata",
	"removeEditorsNSData":            "removeEditorsData",
	"cleanupAttrs":                   "cleanupAttrs",
	"mergeStyles":                    "inlineStyles",
	"inlineStyles":                   "inlineStyles",
	"minifyStyles":                   "minifyStyles",
	"convertStyleToAttrs":            "convertStyleToAttrs",
	"cleanupNumericValues":           "cleanupNumericValues",
	"convertColors":                  "convertColors",
	"removeUnknownsAndDefaults":      "removeUnknownsAndDefaults",
	"removeViewBox":                  "removeUnknownsAndDefaults",
	"removeNonInheritableGroupAttrs": "moveGroupAttrsToChildren",
	"moveGroupAttrsToElems":          "moveGroupAttrsToChildren",
	"moveElemsAttrsToGroup":          "moveElemsAttrsToGroup",
	"removeUselessStrokeAndFill":     "removeUselessDefaults",
	"cleanupEnableBackground":        "cleanupEnableBackground",
	"removeHiddenElems":              "removeHidden",
	"removeEmptyText":                "removeEmptyText",
	"convertShapeToPath":             "convertShapeToPath",
	"convertEllipseToCircle":         "convertShapeToPath",
	"collapseGroups":                 "collapseGroups",
	"mergeStyledGroups":              "mergeStyledGroups",
	"convertPathData":                "convertPathData",
	"convertTransform":               "convertTransform",
	"removeEmptyAttrs":               "removeEmptyAttrs",
	"removeEmptyContainers":          "removeEmptyContainers",
	"mergePaths":                     "reusePaths",
	"reusePaths":                     "reusePaths",
	"removeUnusedNS":                 "removeXMLNSPrefixes",
	"sortDefsChildren":               "sortDefsChildren",
	"sortAttrs":                      "sortAttrs",
	"cleanupIDs":                     "minifyIDs",
	"prefixIds":                      "prefixIDs",
	"removeUselessDefs":              "removeUselessDefs",
	"removeAttrs":                    "removeAttrs",
}

// ConvertSvgoConfig translates an SVGO-style plugin list into a Preset:
// each enabled plugin contributes its mapped job to the order (in list
// order, first occurrence wins), with Params carried through as that
// job's option override. A nil plugins argument returns the Default
// preset unchanged; an empty (non-nil) slice returns the None preset
// (spec.md §6).
func ConvertSvgoConfig(plugins []SvgoPlugin) (Preset, error) {
	if plugins == nil {
		return Default(), nil
	}
	if len(plugins) == 0 {
		return None(), nil
	}

	preset := Preset{Options: make(map[string]json.RawMessage)}
	seen := make(map[string]bool)

	for _, p := range plugins {
		if p.Enabled != nil && !*p.Enabled {
			continue
		}
		jobName, ok := svgoToJob[p.Name]
		if !ok {
			return Preset{}, &ConfigError{Job: p.Name, Reason: "no optisvg job corresponds to this SVGO plugin"}
		}
		if _, ok := job.Registry[jobName]; !ok {
			return Preset{}, &ConfigError{Job: jobName, Reason: "mapped job is not registered"}
		}
		if !seen[jobName] {
			seen[jobName] = true
			preset.Order = append(preset.Order, jobName)
		}
		if len(p.Params) > 0 {
			preset.Options[jobName] = p.Params
		}
	}
	return preset, nil
}
