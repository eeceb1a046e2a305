package language

import (
	"reflect"
	"testing"
)

func TestDetect(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		path string
		want Language
	}{
		{"src/app.js", JavaScript},
		{"src/Component.tsx", TypeScript},
		{"lib/util.py", Python},
		{"com/example/Main.java", Java},
		{"Service.cs", CSharp},
		{"core/engine.hpp", CPP},
		{"cmd/main.go", Go},
		{"index.php", PHP},
		{"UPPER.JS", JavaScript},
	}

	for _, tt := range tests {
		p, ok := r.Detect(tt.path)
		if !ok {
			t.Errorf("Detect(%q) not recognized", tt.path)
			continue
		}
		if p.Name != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.path, p.Name, tt.want)
		}
	}

	if _, ok := r.Detect("README.md"); ok {
		t.Error("Detect should not recognize .md files")
	}
	if _, ok := r.Detect("Makefile"); ok {
		t.Error("Detect should not recognize extensionless files")
	}
}

func TestNewRegistryOverrides(t *testing.T) {
	r := NewRegistry(map[string][]string{
		"python": {".py", ".pyw"},
	})

	if p, ok := r.Detect("script.pyw"); !ok || p.Name != Python {
		t.Error("override extension .pyw should map to python")
	}
	// Other languages keep their defaults.
	if p, ok := r.Detect("app.js"); !ok || p.Name != JavaScript {
		t.Error("default extension .js should survive an unrelated override")
	}
}

func TestExtractImportsJavaScript(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(JavaScript)

	text := `import React from 'react';
import { helper } from './utils/helper';
const fs = require("fs");
const lazy = import('./lazy/module');
`
	got := p.ExtractImports(text)
	want := []string{"react", "./utils/helper", "fs", "./lazy/module"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestExtractImportsPython(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(Python)

	text := `import os
from utils.helpers import slugify
import numpy as np
`
	got := p.ExtractImports(text)
	want := []string{"utils.helpers", "os", "numpy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestExtractImportsJava(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(Java)

	text := `package com.example.app;

import java.util.List;
import static org.junit.Assert.assertEquals;
import com.example.service.UserService;
`
	got := p.ExtractImports(text)
	want := []string{"java.util.List", "org.junit.Assert.assertEquals", "com.example.service.UserService"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestExtractImportsCSharp(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(CSharp)

	text := "using System;\nusing MyApp.Services;\n\nnamespace MyApp {}\n"
	got := p.ExtractImports(text)
	want := []string{"System", "MyApp.Services"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestExtractImportsCPP(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(CPP)

	text := "#include <vector>\n#include \"engine/renderer.h\"\n"
	got := p.ExtractImports(text)
	want := []string{"vector", "engine/renderer.h"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestExtractImportsGo(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(Go)

	single := "package main\n\nimport \"fmt\"\n"
	got := p.ExtractImports(single)
	want := []string{"fmt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("single import: got %v, want %v", got, want)
	}

	block := `package main

import (
	"fmt"
	"os"

	"example.com/pkg/util"
)
`
	got = p.ExtractImports(block)
	want = []string{"fmt", "os", "example.com/pkg/util"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("block import: got %v, want %v", got, want)
	}
}

func TestExtractImportsPHP(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(PHP)

	text := `<?php
require_once 'lib/db.php';
include("templates/header.php");
`
	got := p.ExtractImports(text)
	want := []string{"lib/db.php", "templates/header.php"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestExtractImportsDeduplicates(t *testing.T) {
	r := DefaultRegistry()
	p, _ := r.Profile(JavaScript)

	text := "import a from './a';\nconst again = require('./a');\n"
	got := p.ExtractImports(text)
	want := []string{"./a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImports = %v, want %v", got, want)
	}
}

func TestMatchImportLine(t *testing.T) {
	r := DefaultRegistry()

	js, _ := r.Profile(JavaScript)
	if spec, ok := js.MatchImportLine("import x from './widgets/button';"); !ok || spec != "./widgets/button" {
		t.Errorf("MatchImportLine js = %q, %v", spec, ok)
	}
	if _, ok := js.MatchImportLine("const x = 1;"); ok {
		t.Error("MatchImportLine should not match a plain statement")
	}

	py, _ := r.Profile(Python)
	if spec, ok := py.MatchImportLine("from widgets.button import Button"); !ok || spec != "widgets.button" {
		t.Errorf("MatchImportLine py = %q, %v", spec, ok)
	}
}
