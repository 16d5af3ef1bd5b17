// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - DocumentBuilder: Fluent builder for deployment documents
//   - AzureFixture: A mock runner answering every deployment operation
//   - NewSteppingClock: A fake clock that advances while code sleeps on it
//
// Usage:
//
//	doc := testing.NewDocumentBuilder().
//	    WithContainers("in", "out").
//	    Build()
//
//	runner := testing.NewAzureFixture().SuccessfulDeployment()
package testing
