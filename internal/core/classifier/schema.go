package classifier

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/alingse/visionscribe/internal/core/common"
	"github.com/alingse/visionscribe/internal/core/model"
)

var plausibleFileType = regexp.MustCompile(`^[a-z0-9][a-z0-9+#._-]{0,31}$`)

// ParseResponse validates a raw model response and converts it into a
// proposed structure. Nested objects are directories and their keys are
// joined with "/". Key order and duplicate keys are kept as emitted.
func ParseResponse(raw string) (*model.ProposedStructure, error) {
	if !utf8.ValidString(raw) {
		return nil, newInvalidResponse(raw, "response is not valid UTF-8")
	}
	obj, err := common.ExtractJSONObject(raw)
	if err != nil {
		return nil, newInvalidResponse(raw, "%v", err)
	}
	if !gjson.Valid(obj) {
		return nil, newInvalidResponse(raw, "response is not valid JSON")
	}

	root := gjson.Parse(obj)
	structure := root.Get("structure")
	if !structure.Exists() {
		return nil, newInvalidResponse(raw, "missing \"structure\" object")
	}
	if !structure.IsObject() {
		return nil, newInvalidResponse(raw, "\"structure\" must be an object, got %s", structure.Type)
	}

	proposed := &model.ProposedStructure{FileTypes: make(map[string]string)}
	if err := collectEntries(raw, "", structure, &proposed.Entries); err != nil {
		return nil, err
	}

	fileTypes := root.Get("file_types")
	if fileTypes.Exists() && fileTypes.Type != gjson.Null {
		if !fileTypes.IsObject() {
			return nil, newInvalidResponse(raw, "\"file_types\" must be an object, got %s", fileTypes.Type)
		}
		var typeErr error
		fileTypes.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.String {
				typeErr = newInvalidResponse(raw, "file type for %q must be a string", key.String())
				return false
			}
			t := strings.ToLower(strings.TrimSpace(value.String()))
			if !plausibleFileType.MatchString(t) {
				typeErr = newInvalidResponse(raw, "implausible file type %q for %q", value.String(), key.String())
				return false
			}
			proposed.FileTypes[key.String()] = t
			return true
		})
		if typeErr != nil {
			return nil, typeErr
		}
	}

	return proposed, nil
}

func collectEntries(raw, prefix string, node gjson.Result, out *[]model.ProposedEntry) error {
	var walkErr error
	node.ForEach(func(key, value gjson.Result) bool {
		p := key.String()
		if prefix != "" {
			p = prefix + "/" + p
		}
		switch {
		case value.Type == gjson.String:
			*out = append(*out, model.ProposedEntry{Path: p, Content: value.String()})
		case value.IsObject():
			walkErr = collectEntries(raw, p, value, out)
		default:
			walkErr = newInvalidResponse(raw, "value for %q must be file content or a directory object, got %s", p, value.Type)
		}
		return walkErr == nil
	})
	return walkErr
}
