package analyzer

import (
	"testing"
)

func TestBuildContext(t *testing.T) {
	source := `import os
import sys as system
from pathlib import Path

VERSION = "1.0"

def main():
    global VERSION
    VERSION = "2.0"

class App:
    pass
`
	root := parseModule(t, source)
	ctx := BuildContext(root)

	if !ctx.HasImport("os") {
		t.Error("expected os import")
	}
	if !ctx.HasImport("sys") {
		t.Error("expected sys import despite alias")
	}
	if !ctx.HasImport("pathlib") {
		t.Error("expected pathlib import")
	}
	if ctx.HasImport("json") {
		t.Error("did not expect json import")
	}
	if !ctx.IsGlobal("VERSION") {
		t.Error("expected VERSION to be tracked as global")
	}
	if len(ctx.Functions) != 1 || ctx.Functions[0] != "main" {
		t.Errorf("unexpected functions: %v", ctx.Functions)
	}
	if len(ctx.Classes) != 1 || ctx.Classes[0] != "App" {
		t.Errorf("unexpected classes: %v", ctx.Classes)
	}
}
