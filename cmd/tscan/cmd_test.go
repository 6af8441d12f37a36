package main

import (
	"testing"
)

func TestAnalyzeCmd_FlagsExist(t *testing.T) {
	cmd := analyzeCmd()

	expectedFlags := []string{"format", "json", "verbose", "min-score", "sort", "include-tests", "config"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestAnalyzeCmd_ShortFlags(t *testing.T) {
	cmd := analyzeCmd()

	shortFlags := map[string]string{
		"f": "format",
		"v": "verbose",
		"c": "config",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestAnalyzeCmd_DefaultValues(t *testing.T) {
	cmd := analyzeCmd()

	formatFlag := cmd.Flags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("format flag not found")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("Expected default format to be 'text', got '%s'", formatFlag.DefValue)
	}

	sortFlag := cmd.Flags().Lookup("sort")
	if sortFlag == nil {
		t.Fatal("sort flag not found")
	}
	if sortFlag.DefValue != "score" {
		t.Errorf("Expected default sort to be 'score', got '%s'", sortFlag.DefValue)
	}
}

func TestAnalyzeCmd_NoPathsError(t *testing.T) {
	cmd := analyzeCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Error("Expected error when no paths specified")
	}
}

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{"min-score", "allow-red-flags", "include-tests", "verbose", "json", "config"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckCmd_ShortFlags(t *testing.T) {
	cmd := checkCmd()

	shortFlags := map[string]string{
		"v": "verbose",
		"c": "config",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestCheckCmd_DefaultGate(t *testing.T) {
	cmd := checkCmd()

	gateFlag := cmd.Flags().Lookup("min-score")
	if gateFlag == nil {
		t.Fatal("min-score flag not found")
	}
	if gateFlag.DefValue != "70" {
		t.Errorf("Expected default gate to be '70', got '%s'", gateFlag.DefValue)
	}
}

func TestCheckCmd_NoPathsError(t *testing.T) {
	cmd := checkCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Error("Expected error when no paths specified")
	}
}

func TestCheckExitError_Error(t *testing.T) {
	err := &CheckExitError{Code: 1, Message: "test error"}
	if err.Error() != "test error" {
		t.Errorf("Error() should return message, got '%s'", err.Error())
	}
}

func TestVersionCmd_FlagsExist(t *testing.T) {
	cmd := versionCmd()

	if cmd == nil {
		t.Fatal("versionCmd should not return nil")
	}

	verboseFlag := cmd.Flags().Lookup("verbose")
	if verboseFlag == nil {
		t.Error("Missing expected flag: --verbose")
	}
}

func TestVersionCmd_ShortFlag(t *testing.T) {
	cmd := versionCmd()

	flag := cmd.Flags().ShorthandLookup("v")
	if flag == nil {
		t.Error("Missing short flag -v for --verbose")
	}
}
