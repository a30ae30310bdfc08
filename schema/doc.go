// Package schema provides the versioned attribute catalog of node types.
//
// A Registry maps a node type id to the ordered list of attributes a node of
// that type carries, each with the semantic value type the exporter uses to
// encode it. Entries and attributes are tagged with applicable format
// version ranges; Lookup filters them for one target version.
//
// # Catalog files
//
// The built-in catalog is embedded from catalog/*.hcl. Extra files can be
// merged with Registry.LoadFile:
//
//	node "ShaderNodeMath" {
//	  attribute "operation" { type = "enum" }
//	  attribute "use_clamp" { type = "bool" }
//	}
//
//	node "CompositorNodeColorBalance" {
//	  variant_by = "correction_method"
//	  attribute "correction_method" { type = "enum" }
//	  variant "LIFT_GAMMA_GAIN" {
//	    attribute "lift" { type = "color" }
//	  }
//	}
//
// Ranges use "min" (inclusive) and "max" (exclusive) version strings; a
// missing bound is open.
package schema
