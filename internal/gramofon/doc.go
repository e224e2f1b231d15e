// Package gramofon provides a session-authenticated JSON-RPC client for
// Gramofon WiFi-audio devices.
//
// This package implements the device's local HTTP API: a JSON-RPC 2.0
// endpoint at http://<address>/api/<session-token> whose single wire method
// "call" dispatches to firmware modules (session, anet, wifid, mfgd, ledd).
// It covers login and session caching, the fixed method table recovered from
// the original Setup APK, and a classified failure taxonomy.
//
// # Sessions
//
// Every call except login requires an opaque session token in the request
// path; login itself is made with a placeholder token of 32 ASCII zeros.
// Tokens are cached per address by the SessionManager. When the firmware
// reports the token expired (error code -32002), Call invalidates the cached
// token, logs in again and retries the original call exactly once. A second
// expiry, or any other failure, is surfaced without further retries so call
// latency stays bounded.
//
// # Known weakness: fixed credentials
//
// The firmware hard-codes a single credential pair, admin/admin, for every
// device ever shipped, and provides no way to change it. This is a property
// of the appliance, not a choice of this client: anyone on the same network
// segment can authenticate against any Gramofon. Treat these devices
// accordingly when placing them on a network.
//
// # Open payloads
//
// Request params and result payloads are firmware-defined and may contain
// fields this client does not know about. Both are therefore carried as raw
// JSON (Params, Payload) rather than closed structs, so unknown fields are
// preserved rather than stripped when values are round-tripped.
//
// # Usage Example
//
//	client := gramofon.NewDefaultClient()
//	ctx := context.Background()
//
//	name, err := client.DeviceName(ctx, "192.168.1.50")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("device name:", name)
//
//	// Turn the indicator LED off
//	if err := client.SetLED(ctx, "192.168.1.50", false); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// All failures are returned as *CallError with a FailureKind of Unreachable,
// AuthFailure, SessionExpired, Protocol or Device. The IsUnreachable,
// IsAuthFailure, IsSessionExpired, IsProtocolError and IsDeviceError
// predicates work through wrapped error chains.
//
// # Thread Safety
//
// Client and SessionManager are safe for concurrent use. Sessions are owned
// per address; concurrent logins against the same address are serialized so
// the second waits for the first instead of racing it.
package gramofon
