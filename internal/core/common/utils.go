package common

import (
	"fmt"
	"strings"
)

// ExtractJSONObject returns the outermost JSON object in an LLM response,
// dropping markdown fences or prose around it.
func ExtractJSONObject(response string) (string, error) {
	start := strings.IndexByte(response, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(response, '}')
	if end < start {
		return "", fmt.Errorf("no JSON object found in response (missing '}')")
	}
	return response[start : end+1], nil
}
