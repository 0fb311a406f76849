// Package board implements TaskBoard, the task list view state and its
// synchronization with the task API.
//
// A Board owns four pieces of state: the task list as last fetched, the
// draft of the create form, the edit session, and a single banner
// message. Every mutation (create, update, delete) is followed by a full
// refresh of the list; the list is never patched locally.
//
// Each operation comes in two shapes. The synchronous form (Refresh,
// Create, SaveEdit, Delete) performs the call and applies the result,
// which is what the CLI uses. The split form (BeginRefresh/FinishRefresh,
// CreateRequest/FinishCreate, UpdateRequest/FinishUpdate, FinishDelete)
// lets an event loop run the network call elsewhere and apply the result
// when it arrives.
//
// A Board is not safe for concurrent use. Event-driven hosts must apply
// results on their update goroutine.
//
// Refresh responses carry a sequence number. A response older than the
// newest one already applied is dropped, so the list shown is always the
// most recently requested one.
package board
