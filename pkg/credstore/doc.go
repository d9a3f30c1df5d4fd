// Package credstore persists derived Wi-Fi credentials.
//
// # Overview
//
// The package has two layers. Backend is the raw key-value persistence
// capability (the ESP32 deployment backs it with NVS; this module ships a
// JSON FileBackend and an in-memory MemBackend). Store is the policy layer
// on top: it maps network IDs to derived secrets inside a fixed namespace,
// skips writes whose value is already stored (write-limited flash cares),
// and caches derivation results so the expensive PBKDF2 run happens at most
// once per network.
//
// # Absent vs empty
//
// A missing record and a record holding a zero-length secret are different
// outcomes. Backend.Get reports absence with ErrKeyNotFound; Store.Get
// reports it with ErrUnknownNetwork. Genuine backend I/O errors propagate
// unchanged and are never coerced to "absent".
//
// # Concurrency
//
// Store serializes mutations with an internal mutex; reads are safe
// concurrently. Backends must make each individual call durable and
// atomic.
package credstore
