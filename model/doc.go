// Package model contains concrete implementations of the core.Worker
// execution contract.
//
// The canonical Worker interface lives in the core package to keep domain
// contracts central. Provider subpackages (openai, anthropic) adapt vendor
// SDKs to the single-shot Execute call; MockWorker offers deterministic
// canned behavior for tests and examples.
package model
