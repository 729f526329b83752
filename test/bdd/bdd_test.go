package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/work4food-go/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: BatchAssignmentScenario registered FIRST so its courier/order
	// setup steps take precedence for batch_assignment.feature
	steps.InitializeBatchAssignmentScenario(sc)
	steps.InitializeOrderLifecycleScenario(sc)
}
