// Package e2e runs the feature files in features/ against an in-process
// registry.
package e2e

import (
	"github.com/cucumber/godog"

	"docflow/e2e/steps/admission"
	"docflow/e2e/world"
)

// RegisterSteps registers all step definitions from modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, w func() *world.World) {
	admission.RegisterSteps(ctx, w)
}
