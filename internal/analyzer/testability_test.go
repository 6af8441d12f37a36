package analyzer

import (
	"testing"
)

func analyzeSource(t *testing.T, source string) *FileScore {
	t.Helper()
	root := parseModule(t, source)
	return NewTestabilityAnalyzer().Analyze(root, "test.py")
}

func TestAnalyzeBranchyFunction(t *testing.T) {
	source := `def route(value):
    if value == 1:
        return "a"
    elif value == 2:
        return "b"
    for i in value:
        if i > 1:
            return "c"
    while value > 10:
        value = value - 1
    x = 1 if value else 2
    return x
`
	result := analyzeSource(t, source)

	if len(result.FunctionScores) != 1 {
		t.Fatalf("expected 1 function score, got %d", len(result.FunctionScores))
	}
	fn := result.FunctionScores[0]
	if fn.FinalScore != 94 {
		t.Errorf("expected score 94 for 6 branches, got %d", fn.FinalScore)
	}
	if result.OverallScore != 94 {
		t.Errorf("expected overall score 94, got %d", result.OverallScore)
	}
	if result.Classification != "Healthy" {
		t.Errorf("expected Healthy, got %q", result.Classification)
	}
}

func TestAnalyzeHiddenImportAndFileRead(t *testing.T) {
	source := `def load(path):
    import requests
    data = open(path).read()
    return data
`
	result := analyzeSource(t, source)

	if len(result.FunctionScores) != 1 {
		t.Fatalf("expected 1 function score, got %d", len(result.FunctionScores))
	}
	fn := result.FunctionScores[0]
	if fn.FinalScore != 85 {
		t.Errorf("expected score 85, got %d", fn.FinalScore)
	}
	if result.OverallScore != 85 {
		t.Errorf("expected overall score 85, got %d", result.OverallScore)
	}
	if result.Classification != "Healthy" {
		t.Errorf("expected Healthy, got %q", result.Classification)
	}
	if band := NewThresholdClassifier().ClassifyFunctionScore(fn.FinalScore); band != "Easy" {
		t.Errorf("expected Easy, got %q", band)
	}
}

func TestAnalyzeConstructorWithFileIO(t *testing.T) {
	source := `class Config:
    def __init__(self, path):
        f = open(path)
        self.data = f.read()
`
	result := analyzeSource(t, source)

	if len(result.ClassScores) != 1 {
		t.Fatalf("expected 1 class score, got %d", len(result.ClassScores))
	}
	cls := result.ClassScores[0]

	var sideEffects []Violation
	for _, v := range cls.ConstructorViolations {
		if v.RuleName == "Constructor Side Effects" {
			sideEffects = append(sideEffects, v)
		}
	}
	if len(sideEffects) != 1 {
		t.Fatalf("expected exactly one constructor side effects violation, got %d", len(sideEffects))
	}
	v := sideEffects[0]
	if v.PointsDeducted != 15 {
		t.Errorf("expected 15 points, got %d", v.PointsDeducted)
	}
	if !v.IsRedFlag {
		t.Error("constructor side effects should be a red flag")
	}
	if v.FunctionName != "Config.__init__" {
		t.Errorf("expected Config.__init__, got %q", v.FunctionName)
	}

	// Every constructor violation lands in the file's red flags
	if len(result.RedFlags) != len(cls.ConstructorViolations) {
		t.Errorf("expected %d red flags, got %d", len(cls.ConstructorViolations), len(result.RedFlags))
	}
}

func TestAnalyzeExcessiveParameters(t *testing.T) {
	source := `def build(a, b, c, d, e, f, g):
    return a
`
	result := analyzeSource(t, source)

	fn := result.FunctionScores[0]
	if len(fn.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(fn.Violations))
	}
	v := fn.Violations[0]
	if v.RuleName != "Excessive Parameter Count" || v.PointsDeducted != 5 {
		t.Errorf("unexpected violation: %+v", v)
	}
	if fn.FinalScore != 95 {
		t.Errorf("expected score 95, got %d", fn.FinalScore)
	}
}

func TestAnalyzeEmptyFile(t *testing.T) {
	result := analyzeSource(t, "")

	if result.OverallScore != 100 {
		t.Errorf("expected score 100 for empty file, got %d", result.OverallScore)
	}
	if result.Classification != "Healthy" {
		t.Errorf("expected Healthy, got %q", result.Classification)
	}
	if len(result.FunctionScores) != 0 || len(result.ClassScores) != 0 {
		t.Error("empty file should have no scores")
	}
}

func TestAnalyzeMethodRedFlagsStayLocal(t *testing.T) {
	source := `class Worker:
    def now(self):
        return time.time()
`
	result := analyzeSource(t, source)

	if len(result.ClassScores) != 1 {
		t.Fatalf("expected 1 class score, got %d", len(result.ClassScores))
	}
	cls := result.ClassScores[0]
	if len(cls.MethodScores) != 1 {
		t.Fatalf("expected 1 method score, got %d", len(cls.MethodScores))
	}

	method := cls.MethodScores[0]
	hasRedFlag := false
	for _, v := range method.Violations {
		if v.IsRedFlag {
			hasRedFlag = true
		}
	}
	if !hasRedFlag {
		t.Fatal("expected a red flag violation on the method")
	}

	// Method red flags do not bubble up to the file
	if len(result.RedFlags) != 0 {
		t.Errorf("expected no file red flags, got %d", len(result.RedFlags))
	}
}

func TestAnalyzeWorstScoreWins(t *testing.T) {
	source := `def add(a, b):
    return a + b

def messy(path):
    global counter
    counter = open(path)
    counter = time.time()
`
	result := analyzeSource(t, source)

	if len(result.FunctionScores) != 2 {
		t.Fatalf("expected 2 function scores, got %d", len(result.FunctionScores))
	}
	clean := result.FunctionScores[0]
	messy := result.FunctionScores[1]
	if clean.FinalScore != 100 {
		t.Errorf("expected clean function to score 100, got %d", clean.FinalScore)
	}
	if messy.FinalScore >= clean.FinalScore {
		t.Errorf("expected messy function to score lower, got %d", messy.FinalScore)
	}
	if result.OverallScore != messy.FinalScore {
		t.Errorf("overall score %d should equal worst function score %d",
			result.OverallScore, messy.FinalScore)
	}
}

func TestAnalyzeMethodsAreNotTopLevelFunctions(t *testing.T) {
	source := `def standalone():
    return 1

class Service:
    def handle(self):
        return 2
`
	result := analyzeSource(t, source)

	if len(result.FunctionScores) != 1 {
		t.Fatalf("expected 1 top-level function, got %d", len(result.FunctionScores))
	}
	if result.FunctionScores[0].Name != "standalone" {
		t.Errorf("unexpected top-level function %q", result.FunctionScores[0].Name)
	}
	if len(result.ClassScores) != 1 || len(result.ClassScores[0].MethodScores) != 1 {
		t.Fatal("expected the method under its class")
	}
}

func TestParseErrorScore(t *testing.T) {
	result := ParseErrorScore("broken.py")

	if result.OverallScore != 0 {
		t.Errorf("expected score 0, got %d", result.OverallScore)
	}
	if result.Classification != "Parse Error" {
		t.Errorf("expected Parse Error, got %q", result.Classification)
	}
	if result.FilePath != "broken.py" {
		t.Errorf("unexpected path %q", result.FilePath)
	}
}

func TestFileScoreAllViolations(t *testing.T) {
	source := `def load_data(path):
    import requests
    return open(path)

class Config:
    def __init__(self, path):
        self.f = open(path)
`
	result := analyzeSource(t, source)

	all := result.AllViolations()
	if len(all) == 0 {
		t.Fatal("expected violations")
	}

	total := 0
	for _, fn := range result.FunctionScores {
		total += len(fn.Violations)
	}
	for _, cls := range result.ClassScores {
		total += len(cls.ConstructorViolations)
		for _, m := range cls.MethodScores {
			total += len(m.Violations)
		}
	}
	if len(all) != total {
		t.Errorf("expected %d violations, got %d", total, len(all))
	}
}

func TestAnalyzeNestedClassIsScored(t *testing.T) {
	source := `def factory(path):
    class Config:
        def __init__(self):
            self.data = open(path).read()
    return Config()
`
	result := analyzeSource(t, source)

	if len(result.ClassScores) != 1 {
		t.Fatalf("expected 1 class score, got %d", len(result.ClassScores))
	}
	cls := result.ClassScores[0]
	if cls.Name != "Config" {
		t.Errorf("expected class Config, got %q", cls.Name)
	}
	if len(cls.ConstructorViolations) == 0 {
		t.Fatal("expected constructor violations for file I/O in __init__")
	}

	// Only the enclosing function is a top-level function
	if len(result.FunctionScores) != 1 || result.FunctionScores[0].Name != "factory" {
		t.Errorf("unexpected top-level functions: %+v", result.FunctionScores)
	}

	// The dirty constructor drags the file score down
	if result.OverallScore >= 100 {
		t.Errorf("expected overall score below 100, got %d", result.OverallScore)
	}
	if len(result.RedFlags) < len(cls.ConstructorViolations) {
		t.Errorf("expected constructor violations in red flags, got %d of %d",
			len(result.RedFlags), len(cls.ConstructorViolations))
	}
}

func TestAnalyzeClassInsideClassIsScored(t *testing.T) {
	source := `class Outer:
    class Inner:
        def __init__(self):
            self.conn = open("state.db")
`
	result := analyzeSource(t, source)

	names := make(map[string]bool)
	for _, cls := range result.ClassScores {
		names[cls.Name] = true
	}
	if !names["Outer"] || !names["Inner"] {
		t.Fatalf("expected Outer and Inner class scores, got %v", names)
	}
	for _, cls := range result.ClassScores {
		if cls.Name == "Inner" && len(cls.ConstructorViolations) == 0 {
			t.Error("expected constructor violations on Inner")
		}
	}
}
