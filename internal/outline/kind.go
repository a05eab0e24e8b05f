package outline

// Kind categorizes an item for kind-based filtering and highlighting.
// The names follow the LSP SymbolKind vocabulary, with a few extras for
// non-LSP sources.
type Kind string

const (
	KindFile          Kind = "File"
	KindModule        Kind = "Module"
	KindNamespace     Kind = "Namespace"
	KindPackage       Kind = "Package"
	KindClass         Kind = "Class"
	KindMethod        Kind = "Method"
	KindProperty      Kind = "Property"
	KindField         Kind = "Field"
	KindConstructor   Kind = "Constructor"
	KindEnum          Kind = "Enum"
	KindInterface     Kind = "Interface"
	KindFunction      Kind = "Function"
	KindVariable      Kind = "Variable"
	KindConstant      Kind = "Constant"
	KindString        Kind = "String"
	KindNumber        Kind = "Number"
	KindBoolean       Kind = "Boolean"
	KindArray         Kind = "Array"
	KindObject        Kind = "Object"
	KindKey           Kind = "Key"
	KindNull          Kind = "Null"
	KindEnumMember    Kind = "EnumMember"
	KindStruct        Kind = "Struct"
	KindEvent         Kind = "Event"
	KindOperator      Kind = "Operator"
	KindTypeParameter Kind = "TypeParameter"

	// Non-LSP sources.
	KindBuffer     Kind = "Buffer"
	KindDiagnostic Kind = "Diagnostic"
	KindTag        Kind = "Tag"
)

// KindCodes maps the short filter codes accepted in queries (e.g. "/f")
// to the kind sets they select. The table is a value, copied into filter
// configuration rather than mutated globally.
func KindCodes() map[string][]Kind {
	return map[string][]Kind{
		"f": {KindFunction, KindMethod, KindConstructor},
		"c": {KindClass, KindStruct, KindInterface, KindEnum},
		"v": {KindVariable, KindConstant, KindField, KindProperty, KindEnumMember},
		"m": {KindModule, KindNamespace, KindPackage},
		"d": {KindDiagnostic},
		"t": {KindTag},
	}
}
