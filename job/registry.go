package job

import "github.com/optisvg/optisvg/pathdata"

// Registry maps a job's stable name (as used in config presets and the
// SVGO-compatible config translation) to a constructor producing a fresh
// instance with default options. A fresh instance per pipeline run
// matters because several jobs (MinifyIDs, RemoveUselessDefs, PrefixIDs,
// RemoveAttrs) carry per-run scan state in fields.
var Registry = map[string]func() Job{
	"removeComments":           func() Job { return &RemoveComments{} },
	"removeMetadata":            func() Job { return &RemoveMetadata{} },
	"removeDoctype":             func() Job { return &RemoveDoctype{} },
	"removeXMLProcInst":         func() Job { return &RemoveXMLProcInst{} },
	"removeEditorsData":         func() Job { return &RemoveEditorsData{} },
	"removeEmptyContainers":     func() Job { return &RemoveEmptyContainers{} },
	"removeEmptyText":           func() Job { return &RemoveEmptyText{} },
	"removeHidden":              func() Job { return &RemoveHidden{} },
	"removeEmptyAttrs":          func() Job { return &RemoveEmptyAttrs{} },
	"removeUselessDefaults":     func() Job { return &RemoveUselessDefaults{} },
	"removeUnknownsAndDefaults": func() Job { return &RemoveUnknownsAndDefaults{} },
	"removeAttrs":               func() Job { return &RemoveAttrs{} },
	"minifyIDs":                 func() Job { return &MinifyIDs{} },
	"prefixIDs":                 func() Job { return &PrefixIDs{} },
	"removeUselessDefs":         func() Job { return &RemoveUselessDefs{} },
	"removeXMLNSPrefixes":       func() Job { return &RemoveXMLNSPrefixes{} },
	"inlineStyles": func() Job {
		return &InlineStyles{
			OnlyMatchedOnce:        true,
			RemoveMatchedSelectors: true,
			UseMqs:                 []string{"", "screen"},
			UsePseudos:             []string{""},
		}
	},
	"convertStyleToAttrs":       func() Job { return &ConvertStyleToAttrs{} },
	"minifyStyles":              func() Job { return &MinifyStyles{} },
	"collapseGroups":            func() Job { return &CollapseGroups{} },
	"mergeStyledGroups":         func() Job { return &MergeStyledGroups{} },
	"sortAttrs":                 func() Job { return &SortAttrs{} },
	"sortDefsChildren":          func() Job { return &SortDefsChildren{} },
	"moveGroupAttrsToChildren":  func() Job { return &MoveGroupAttrsToChildren{} },
	"moveElemsAttrsToGroup":     func() Job { return &MoveElemsAttrsToGroup{} },
	"convertPathData": func() Job {
		return &ConvertPathData{Options: pathdata.MinifyOptions{Precision: -1, DeltaPrecision: -1}}
	},
	"convertShapeToPath":        func() Job { return &ConvertShapeToPath{} },
	"convertColors":             func() Job { return &ConvertColors{} },
	"convertTransform":          func() Job { return &ConvertTransform{} },
	"cleanupNumericValues": func() Job { return &CleanupNumericValues{Precision: -1} },
	"cleanupEnableBackground":   func() Job { return &CleanupEnableBackground{} },
	"cleanupAttrs":              func() Job { return &CleanupAttrs{} },
	"reusePaths":                func() Job { return &ReusePaths{} },
}

// DefaultOrder is the order jobs run in when a preset doesn't specify its
// own, chosen so that structural removal happens before the
// attribute/style jobs that would otherwise do wasted work on
// soon-to-be-deleted nodes, and so id-reference-sensitive jobs
// (removeUselessDefs, minifyIDs, reusePaths) run only after every job
// that could still introduce or remove a reference has already run.
var DefaultOrder = []string{
	"removeDoctype",
	"removeXMLProcInst",
	"removeComments",
	"removeMetadata",
	"removeEditorsData",
	"removeEmptyText",
	"cleanupEnableBackground",
	"cleanupAttrs",
	"removeEmptyAttrs",
	"removeUselessDefaults",
	"removeUnknownsAndDefaults",
	"convertStyleToAttrs",
	"inlineStyles",
	"minifyStyles",
	"convertColors",
	"convertShapeToPath",
	"convertPathData",
	"convertTransform",
	"cleanupNumericValues",
	"moveGroupAttrsToChildren",
	"moveElemsAttrsToGroup",
	"mergeStyledGroups",
	"collapseGroups",
	"removeHidden",
	"removeEmptyContainers",
	"sortDefsChildren",
	"removeUselessDefs",
	"reusePaths",
	"removeXMLNSPrefixes",
	"sortAttrs",
	"minifyIDs",
}
