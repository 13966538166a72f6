// Package service is the single write entry point into the tree.
//
// It serialises callers around the single-writer engine, surfaces change
// tracker failures as errors, and rebuilds the tree from the change log at
// start-up. Transports such as gRPC sit on top of it.
package service
