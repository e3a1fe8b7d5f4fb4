// Package cdc replays contracts against a live service.
//
// A Tester sends the request of each config.TestConfig to the service and
// compares what comes back with the expected response:
//
//	tester := cdc.NewTester("http://localhost:8080", validation.New(retriever),
//	    cdc.WithTimeout(5*time.Second))
//	problems, err := tester.Test(ctx, contract)
//
// The two results are deliberately distinct. A non-nil error means the
// contract could not be checked at all: the service did not answer
// (*NoResponseError), it answered with an unexpected error status
// (*StatusError), or the schema for the expected type could not be loaded.
// Otherwise problems lists every divergence that was found, and an empty
// list means the contract holds.
//
// RunSuite tests many contracts concurrently and keeps their order.
package cdc
