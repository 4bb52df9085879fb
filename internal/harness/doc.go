// Package harness runs conformance scenarios against the codec.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: shared_schema
//	description: "Objects with the same keys share one schema entry"
//	options:
//	  sort_keys: true
//	input: |
//	  [{"id": 1, "name": "A"}, {"id": 2, "name": "B"}]
//	expect_root: "8"
//	expect_values: ["id", "name", "a|0|1", ...]
//	expect_output: |
//	  ...
//	assertions:
//	  - type: schema_count
//	    count: 1
//
// input and expect_output are JSON text. expect_output defaults to input.
//
// # Assertion Types
//
//   - value_count: the value list has exactly count entries
//   - schema_count: objects reference exactly count distinct schemas
//   - contains_value: the value list contains value verbatim
//
// # Execution
//
// Run compresses the input into a fresh in-memory archive with sequential
// document ids, round-trips the result through the wire format and the
// archive, and checks every expectation. Golden snapshots of the value
// list live in testdata/golden/{name}.golden.
package harness
