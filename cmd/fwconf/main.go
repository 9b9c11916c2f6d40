// Command fwconf validates device configuration files against the built-in
// core schema.
//
// Usage:
//
//	# Validate a YAML config (secrets.yaml next to it is picked up)
//	fwconf validate living_room.yaml
//
//	# Validate a JSON config and print the validated tree
//	fwconf validate --format json --dump living_room.json
//
//	# Print the JSON Schema of the core schema
//	fwconf schema
package main

func main() {
	Execute()
}
