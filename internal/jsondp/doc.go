// Package jsondp implements JSON with data provenance (JSON-DP): objects and
// arrays whose fields and elements carry optional lineage metadata.
//
// An Object keeps its key/value pairs in groups. Pairs put with the same
// provenance share one group and therefore one provenance block, so
//
//	{"Name":"Paolo Ciccarese","MiddleInitial":"N"}
//
// imported from a single source renders, with provenance, as
//
//	[{"Name":"Paolo Ciccarese","MiddleInitial":"N","@provenance":{"importedFrom":"Public Record"}}]
//
// and, when the two fields come from different sources, as one group each.
//
// An Array keeps its elements in runs, one run per insertion:
//
//	[["Paolo Ciccarese",{"@provenance":{"importedFrom":"Public Record"}}],["Paolo N Ciccarese"]]
//
// Both containers render to plain JSON as well, dropping every provenance
// block. Values held by a container are strings, nested objects or arrays,
// or opaque models.JSON values.
//
// Containers are not safe for concurrent mutation; callers sharing one must
// serialize access.
package jsondp
