// Package models defines the domain records shared by the session store,
// the RPC service and the web surface.
//
// # Models
//
//   - Session: one mounted calculator, held in memory for its UI lifetime
//   - Snapshot: the observable state of a calculator after a recompute
//
// # Design Principles
//
// 1. **Ephemeral state**: nothing here is persisted; a session ends at unmount
// 2. **Snapshots are values**: surfaces receive copies, never the live calculator
// 3. **Derived values are read-only**: only the calculator writes them
package models
