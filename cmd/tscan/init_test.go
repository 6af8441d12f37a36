package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/tscan/internal/config"
)

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "tscan.config.json")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	// Check for expected sections
	contentStr := string(content)
	expectedSections := []string{
		"testability",
		"output",
		"analysis",
		"min_score_gate",
		"allow_red_flags",
	}

	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "tscan.config.json")

	// Create an existing file
	existingContent := []byte(`{"existing": true}`)
	if err := os.WriteFile(configPath, existingContent, 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	// Try to create without force - should fail
	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when file exists without --force")
	}

	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	// Now try with force - should succeed
	cmd = initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	// Verify file was overwritten (should have testability section now)
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	if !strings.Contains(string(content), "testability") {
		t.Error("Config file was not overwritten with new content")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "tscan.config.json")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	// Minimal config should be shorter and contain essential sections
	contentStr := string(content)

	if !strings.Contains(contentStr, "testability") {
		t.Error("Minimal config missing testability section")
	}

	if !strings.Contains(contentStr, "min_score_gate") {
		t.Error("Minimal config missing score gate")
	}

	// Minimal config should have the minimal comment
	if !strings.Contains(contentStr, "minimal") {
		t.Error("Minimal config should indicate it's minimal")
	}
}

func TestInitCommand_CustomOutputPath(t *testing.T) {
	tmpDir := t.TempDir()

	customPath := filepath.Join(tmpDir, "custom-config.json")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", customPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init with custom path failed: %v", err)
	}

	if _, err := os.Stat(customPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created at custom path")
	}
}

func TestInitCommand_InvalidDirectory(t *testing.T) {
	cmd := initCmd()
	cmd.SetArgs([]string{"--config", "/nonexistent/directory/tscan.config.json"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when directory doesn't exist")
	}

	if !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Expected 'directory does not exist' error, got: %v", err)
	}
}

func TestInitCommand_FullConfigSize(t *testing.T) {
	tmpDir := t.TempDir()

	fullPath := filepath.Join(tmpDir, "full.json")
	cmd := initCmd()
	cmd.SetArgs([]string{"--config", fullPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	fullContent, _ := os.ReadFile(fullPath)

	minimalPath := filepath.Join(tmpDir, "minimal.json")
	cmd = initCmd()
	cmd.SetArgs([]string{"--config", minimalPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	minimalContent, _ := os.ReadFile(minimalPath)

	// Full config should be larger than minimal
	if len(fullContent) <= len(minimalContent) {
		t.Error("Full config should be larger than minimal config")
	}
}

func TestGetFullConfigTemplateStrictness(t *testing.T) {
	tests := []struct {
		projectType config.ProjectType
		strictness  config.Strictness
		wantGate    string
		wantFlags   string
	}{
		{
			projectType: config.ProjectTypeGeneric,
			strictness:  config.StrictnessStandard,
			wantGate:    `"min_score_gate": 70`,
			wantFlags:   `"allow_red_flags": false`,
		},
		{
			projectType: config.ProjectTypeWeb,
			strictness:  config.StrictnessStrict,
			wantGate:    `"min_score_gate": 80`,
			wantFlags:   `"allow_red_flags": false`,
		},
		{
			projectType: config.ProjectTypeData,
			strictness:  config.StrictnessRelaxed,
			wantGate:    `"min_score_gate": 40`,
			wantFlags:   `"allow_red_flags": true`,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.projectType)+"_"+string(tt.strictness), func(t *testing.T) {
			template := config.GetFullConfigTemplate(tt.projectType, tt.strictness)

			if !strings.Contains(template, tt.wantGate) {
				t.Errorf("Template missing expected gate: %s", tt.wantGate)
			}

			if !strings.Contains(template, tt.wantFlags) {
				t.Errorf("Template missing expected red flag setting: %s", tt.wantFlags)
			}
		})
	}
}

func TestProjectPresetsCoverAllTypes(t *testing.T) {
	presets := config.GetProjectPresets()

	projectTypes := []config.ProjectType{
		config.ProjectTypeGeneric,
		config.ProjectTypeWeb,
		config.ProjectTypeData,
		config.ProjectTypeLibrary,
	}

	for _, pt := range projectTypes {
		preset, ok := presets[pt]
		if !ok {
			t.Errorf("Missing preset for project type: %s", pt)
			continue
		}

		if len(preset.IncludePatterns) == 0 {
			t.Errorf("Project type %s has no include patterns", pt)
		}

		if len(preset.ExcludePatterns) == 0 {
			t.Errorf("Project type %s has no exclude patterns", pt)
		}

		// All should exclude virtualenvs
		hasVenv := false
		for _, pattern := range preset.ExcludePatterns {
			if strings.Contains(pattern, "venv") {
				hasVenv = true
				break
			}
		}
		if !hasVenv {
			t.Errorf("Project type %s should exclude venv", pt)
		}
	}
}

func TestWebProjectPresetHasMigrationsExclusion(t *testing.T) {
	presets := config.GetProjectPresets()
	webPreset := presets[config.ProjectTypeWeb]

	hasMigrations := false
	for _, pattern := range webPreset.ExcludePatterns {
		if strings.Contains(pattern, "migrations") {
			hasMigrations = true
			break
		}
	}

	if !hasMigrations {
		t.Error("Web preset should exclude migrations directories")
	}
}

func TestLibraryProjectPresetHasEggInfoExclusion(t *testing.T) {
	presets := config.GetProjectPresets()
	libraryPreset := presets[config.ProjectTypeLibrary]

	hasEggInfo := false
	for _, pattern := range libraryPreset.ExcludePatterns {
		if strings.Contains(pattern, "egg-info") {
			hasEggInfo = true
			break
		}
	}

	if !hasEggInfo {
		t.Error("Library preset should exclude egg-info directories")
	}
}

func TestStrictnessPresetOrdering(t *testing.T) {
	presets := config.GetStrictnessPresets()

	relaxed := presets[config.StrictnessRelaxed]
	standard := presets[config.StrictnessStandard]
	strict := presets[config.StrictnessStrict]

	if relaxed.MinScoreGate >= standard.MinScoreGate {
		t.Error("Relaxed should have a lower gate than standard")
	}

	if standard.MinScoreGate >= strict.MinScoreGate {
		t.Error("Standard should have a lower gate than strict")
	}

	if !relaxed.AllowRedFlags {
		t.Error("Relaxed mode should tolerate red flags")
	}

	if strict.AllowRedFlags {
		t.Error("Strict mode should not tolerate red flags")
	}
}

func TestConfigTemplateHasComments(t *testing.T) {
	template := config.GetFullConfigTemplate(config.ProjectTypeGeneric, config.StrictnessStandard)

	// JSONC templates should have comments
	if !strings.Contains(template, "//") {
		t.Error("Full template should contain JSONC comments")
	}

	// Check for documentation sections
	expectedComments := []string{
		"TESTABILITY ANALYSIS",
		"OUTPUT SETTINGS",
		"ANALYSIS SCOPE",
		"github.com/ludo-technologies/tscan",
	}

	for _, comment := range expectedComments {
		if !strings.Contains(template, comment) {
			t.Errorf("Template missing expected comment/section: %s", comment)
		}
	}
}

func TestInitCmd_FlagsExist(t *testing.T) {
	cmd := initCmd()

	expectedFlags := []string{"config", "force", "minimal", "interactive"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}

	shortFlags := map[string]string{
		"c": "config",
		"f": "force",
		"i": "interactive",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestInitCmd_DefaultConfigPath(t *testing.T) {
	cmd := initCmd()

	configFlag := cmd.Flags().Lookup("config")
	if configFlag == nil {
		t.Fatal("config flag not found")
	}

	if configFlag.DefValue != "tscan.config.json" {
		t.Errorf("Expected default config path to be 'tscan.config.json', got '%s'", configFlag.DefValue)
	}
}
