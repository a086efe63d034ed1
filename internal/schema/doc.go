// Package schema compiles CUE coordinate declarations into hierarchy
// coordinates and collects them into a registry.
//
// Item families declare themselves in CUE:
//
//	coordinate: orderStep: {
//		kta: ["orderStep", "order", "orderPhase"]
//		scopes: ["firestore"]
//	}
//
// The kta list is validator order: the family's own type first, then the
// expected containment chain. Compilation errors carry CUE positions so the
// CLI can point at the offending declaration.
package schema
