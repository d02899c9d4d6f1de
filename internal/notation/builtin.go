// Package notation lists the built-in stitch vocabulary.
package notation

import (
	"sort"
	"strings"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

// Increases follow the "lifted bar" convention: inc works no live stitch and
// leaves one new stitch.
var builtins = map[string]model.StitchEffect{
	"k":     {Consumes: 1, Produces: 1},
	"p":     {Consumes: 1, Produces: 1},
	"sl":    {Consumes: 1, Produces: 1},
	"k1tbl": {Consumes: 1, Produces: 1},
	"p1tbl": {Consumes: 1, Produces: 1},

	"k2tog": {Consumes: 2, Produces: 1},
	"p2tog": {Consumes: 2, Produces: 1},
	"ssk":   {Consumes: 2, Produces: 1},
	"ssp":   {Consumes: 2, Produces: 1},
	"skp":   {Consumes: 2, Produces: 1},

	"k3tog": {Consumes: 3, Produces: 1},
	"p3tog": {Consumes: 3, Produces: 1},
	"sk2p":  {Consumes: 3, Produces: 1},
	"s2kp":  {Consumes: 3, Produces: 1},
	"cdd":   {Consumes: 3, Produces: 1},
	"sssk":  {Consumes: 3, Produces: 1},

	"inc": {Consumes: 0, Produces: 1},
	"m1":  {Consumes: 0, Produces: 1},
	"m1l": {Consumes: 0, Produces: 1},
	"m1r": {Consumes: 0, Produces: 1},
	"m1p": {Consumes: 0, Produces: 1},
	"yo":  {Consumes: 0, Produces: 1},
	"co":  {Consumes: 0, Produces: 1},

	"kfb": {Consumes: 1, Produces: 2},
	"pfb": {Consumes: 1, Produces: 2},

	"bo": {Consumes: 1, Produces: 0},
}

func lookupBuiltin(name string) (model.StitchEffect, bool) {
	e, ok := builtins[strings.ToLower(name)]
	return e, ok
}

// IsBuiltin reports whether name is part of the built-in vocabulary.
func IsBuiltin(name string) bool {
	_, ok := lookupBuiltin(name)
	return ok
}

// Builtins returns the built-in abbreviations in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
