package scene

import (
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

var sceneNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// sceneNameFormatChecker implements gojsonschema.FormatChecker for
// scene_name. Names end up in URLs, so they are restricted to letters,
// digits, dots, hyphens and underscores.
type sceneNameFormatChecker struct{}

// IsFormat validates that the input is a usable scene name.
func (sceneNameFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	return ok && sceneNamePattern.MatchString(s)
}

func init() {
	gojsonschema.FormatCheckers.Add("scene_name", sceneNameFormatChecker{})
}
