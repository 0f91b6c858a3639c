// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The sync orchestrator owns the throttle and the all-or-nothing commit;
// the scheduler only decides when to ask it for a cycle.
package services
