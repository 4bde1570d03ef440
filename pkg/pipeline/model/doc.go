// Package model provides the data structures shared by the job generator and its options.
// It defines the stages a generated job goes through and the hook interface
// options implement to observe them.
package model
