// Package config loads the declarative list of remote tool services that the
// registry registers in bulk.
//
// A source is a document with a top-level "mcpServers" mapping from service
// name to its definition:
//
//	{
//	  "mcpServers": {
//	    "calc": {
//	      "type": "streamable_http",
//	      "url": "http://localhost:8001/mcp",
//	      "headers": {"Authorization": "Bearer token"},
//	      "description": "Arithmetic helpers",
//	      "timeout": 30000
//	    }
//	  }
//	}
//
// The same shape is accepted as YAML (.yaml, .yml) or TOML (.toml). JSON and
// YAML sources keep document order; TOML sources are ordered by name.
// Locations may be local paths or URLs understood by github.com/viant/afs.
//
// An entry that cannot be decoded does not reject the source; it is returned
// with ServerDefinition.Err set so callers can report it per service.
package config
