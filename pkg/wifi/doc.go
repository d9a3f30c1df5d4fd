// Package wifi drives a network interface through credential resolution
// and association.
//
// # Overview
//
// The Interface type is the externally provided radio capability (a real
// Wi-Fi stack, or a simulated one in tests). Connector is the orchestrator
// on top: it resolves the network's secret from the credential store
// (deriving and caching it on a miss), associates, and polls once per
// second until the interface reports association or the timeout budget is
// spent.
//
// # Connection lifecycle
//
//	IDLE -> RESOLVING_SECRET -> ASSOCIATING -> CONNECTED
//	                        \-> FAILED / TIMED_OUT
//
// On every terminal state other than CONNECTED the interface is
// deactivated, exactly once, before the error is surfaced. An attempt that
// fails before the interface was touched (an unknown network, say) performs
// no interface calls at all.
//
// # Concurrency
//
// A Connector runs at most one attempt at a time; a second Connect while
// one is in flight fails immediately with ErrAttemptInProgress. Timeouts
// are cooperative: the polling loop checks the context at the top of every
// iteration and still performs the deactivation cleanup when cancelled.
package wifi
