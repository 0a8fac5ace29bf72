package filetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPath(t *testing.T) {
	cases := map[string]string{
		"src/app.py":        "python",
		"web/index.HTML":    "html",
		"lib/util.mjs":      "javascript",
		"main.go":           "go",
		"Makefile":          "makefile",
		"deploy/Dockerfile": "dockerfile",
		"config/app.yml":    "yaml",
		"notes":             Unknown,
		"archive.xyz":       Unknown,
		"README":            "markdown",
	}
	for p, want := range cases {
		assert.Equal(t, want, FromPath(p), p)
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "python", Canonical("py"))
	assert.Equal(t, "python", Canonical(" Python "))
	assert.Equal(t, "go", Canonical("golang"))
	assert.Equal(t, "cpp", Canonical("C++"))
	assert.Equal(t, "typescript", Canonical(".ts"))
	assert.Equal(t, "code", Canonical("code"))
	assert.Equal(t, "protobuf", Canonical("protobuf"))
	assert.Equal(t, "", Canonical("  "))
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, FamilyCode, FamilyOf("python"))
	assert.Equal(t, FamilyMarkup, FamilyOf("html"))
	assert.Equal(t, FamilyCode, FamilyOf("code"))
	assert.Equal(t, FamilyUnknown, FamilyOf("protobuf"))
	assert.True(t, IsFamily("markup"))
	assert.False(t, IsFamily("python"))
	assert.False(t, IsFamily("protobuf"))
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"def main():\n    print('hi')", "python"},
		{"package main\n\nfunc main() {\n\tx := 1\n}", "go"},
		{"const x = () => require('fs')", "javascript"},
		{"<!DOCTYPE html>\n<html><body></body></html>", "html"},
		{"SELECT id FROM users", "sql"},
		{"#!/bin/bash\necho \"hi\"", "shell"},
		{"public class Main {\n public static void main(String[] a) {}\n}", "java"},
		{"hello there", Unknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetectLanguage(c.content), c.content)
	}
}
