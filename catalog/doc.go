// Package catalog holds the in-memory service catalog used by the registry.
//
// A catalog maps each registered service name to its description and to the
// ordered set of tool descriptors fetched from the service at registration
// time. Entries are append-only: a service is added once, never updated in
// place, and the whole catalog is discarded at once with [Catalog.Clear].
//
// Tool descriptors are [model.Tool] values whose namespace is the owning
// service, so [model.Tool.ToolID] yields "service:tool".
//
// # Thread Safety
//
// Catalog is safe for concurrent use. A [Service] returned by the catalog is
// immutable and may be shared freely.
package catalog
