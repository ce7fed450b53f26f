package validate

import (
	"reflect"
	"regexp"
	"strings"

	pv "github.com/go-playground/validator/v10"
)

var (
	depIDPattern   = regexp.MustCompile(`^dep-[a-z0-9-]+$`)
	depNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
	regionPattern  = regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d$|^[a-z]+-[a-z]+-\d$`)
	semverPattern  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// registerCustomValidations wires the pattern constraints in as named tags
// (depid, depname, depregion, semver) so struct tags can reference them the
// same way they reference built-ins like "oneof" and "max". It also
// registers a tag-name function so field errors report a record's JSON
// field names instead of its Go struct field names.
func registerCustomValidations(v *pv.Validate) {
	v.RegisterTagNameFunc(jsonTagName)
	_ = v.RegisterValidation("depid", patternValidator(depIDPattern))
	_ = v.RegisterValidation("depname", patternValidator(depNamePattern))
	_ = v.RegisterValidation("depregion", patternValidator(regionPattern))
	_ = v.RegisterValidation("semver", patternValidator(semverPattern))
}

// jsonTagName extracts a struct field's JSON name from its `json` tag,
// falling back to the Go field name when the field has no tag or is
// explicitly excluded from JSON ("-").
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func patternValidator(re *regexp.Regexp) pv.Func {
	return func(fl pv.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok || s == "" {
			return true // required (if any) handles emptiness separately
		}
		return re.MatchString(s)
	}
}
