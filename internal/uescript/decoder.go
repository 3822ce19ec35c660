package uescript

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/th3fanbus/scriptviewer/internal/docvalue"
)

// Object names come in two spellings: TYPE'OUTER:NAME' and TYPE'NAME'.
var (
	fullObjNameRE  = regexp.MustCompile(`^(.*)'(.*):(.*)'`)
	shortObjNameRE = regexp.MustCompile(`^(.*)'(.*)'`)
)

func baseKind(kind string) *Node {
	return NewNode().Set(AttrKind, kind)
}

func baseInst(inst, kind string) *Node {
	return NewNode().Set(AttrInst, inst).Set(AttrKind, kind)
}

func constNode(inst, kind string, value any) *Node {
	return baseInst(inst, kind).Set("value", value)
}

// carry converts a document scalar into its Go form for storage on a node.
// Containers are carried as-is.
func carry(v *docvalue.Value) any {
	switch v.Kind() {
	case docvalue.KindString:
		return v.StringValue()
	case docvalue.KindInt64:
		return int(v.Int64Value())
	case docvalue.KindNumber:
		return v.NumberValue()
	case docvalue.KindBoolean:
		return v.BoolValue()
	case docvalue.KindNull, docvalue.KindUndefined:
		return nil
	default:
		return v
	}
}

// numText renders a numeric operand in its display form.
func numText(v *docvalue.Value) string {
	switch v.Kind() {
	case docvalue.KindInt64:
		return strconv.FormatInt(v.Int64Value(), 10)
	case docvalue.KindNumber:
		return strconv.FormatFloat(v.NumberValue(), 'g', -1, 64)
	case docvalue.KindString:
		return v.StringValue()
	default:
		return ""
	}
}

// shortPath shortens an object path to its final segment.
func shortPath(objpath string) string {
	return objpath[strings.LastIndex(objpath, "/")+1:]
}

// need fetches a required operand key, failing with a structural error that
// names the opcode and carries the offending node.
func need(doc *docvalue.Value, inst, key string) (*docvalue.Value, error) {
	if !doc.ObjectHas(key) {
		return nil, NewStructuralError(inst, doc, "missing operand %q", key)
	}
	return doc.ObjectGet(key), nil
}

// decodeExpr decodes a nested operand expression.
func (a *AST) decodeExpr(doc *docvalue.Value) (*Node, error) {
	return a.decodeInst(doc, -1)
}

// decodeList decodes an ordered sequence of operand expressions.
func (a *AST) decodeList(docs *docvalue.Value) ([]*Node, error) {
	nodes := make([]*Node, 0, docs.ArrayLen())
	for _, elem := range docs.ArrayElements() {
		n, err := a.decodeExpr(elem)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// decodeObjRef decodes an object reference. A structured mapping carries
// ObjectName/ObjectPath; a bare string names a local virtual function.
func (a *AST) decodeObjRef(obj *docvalue.Value) (*Node, error) {
	switch obj.Kind() {
	case docvalue.KindString:
		return NewNode().
			Set("uetype", "LocalVirtualFunction").
			Set("name", obj.StringValue()), nil
	case docvalue.KindObject:
		nameDoc, err := need(obj, "", "ObjectName")
		if err != nil {
			return nil, err
		}
		pathDoc, err := need(obj, "", "ObjectPath")
		if err != nil {
			return nil, err
		}
		objname := nameDoc.StringValue()
		objpath := shortPath(pathDoc.StringValue())
		if m := fullObjNameRE.FindStringSubmatch(objname); m != nil {
			return NewNode().
				Set("uetype", m[1]).
				Set("outer", m[2]).
				Set("name", m[3]).
				Set("objpath", objpath), nil
		}
		if m := shortObjNameRE.FindStringSubmatch(objname); m != nil {
			return NewNode().
				Set("uetype", m[1]).
				Set("name", m[2]).
				Set("objpath", objpath), nil
		}
		return nil, NewStructuralError("", obj, "malformed object name %q", objname)
	default:
		return nil, NewStructuralError("", obj, "object reference is neither mapping nor string")
	}
}

// applyProp decodes a property descriptor onto node. Three shapes exist,
// distinguished by the keys present.
func (a *AST) applyProp(node *Node, prop *docvalue.Value) (*Node, error) {
	switch {
	case prop.ObjectHas("Owner") && prop.ObjectHas("Property"):
		owner, err := a.decodeObjRef(prop.ObjectGet("Owner"))
		if err != nil {
			return nil, err
		}
		inner, err := a.namedProp(prop.ObjectGet("Property"))
		if err != nil {
			return nil, err
		}
		return node.Set("owner", owner).Set("prop", inner), nil
	case prop.ObjectHas("Property"):
		inner := prop.ObjectGet("Property")
		nameDoc, err := need(inner, "", "Name")
		if err != nil {
			return nil, err
		}
		typeDoc, err := need(inner, "", "Type")
		if err != nil {
			return nil, err
		}
		return node.Set("name", carry(nameDoc)).Set("type", carry(typeDoc)), nil
	case prop.ObjectHas("Path") && prop.ObjectHas("ResolvedOwner"):
		owner, err := a.decodeObjRef(prop.ObjectGet("ResolvedOwner"))
		if err != nil {
			return nil, err
		}
		return node.Set("name", carry(prop.ObjectGet("Path"))).Set("owner", owner), nil
	default:
		return nil, NewStructuralError("", prop, "malformed property descriptor")
	}
}

// namedProp decodes the plain {Name, Type} mapping into a {name, type} node.
func (a *AST) namedProp(inner *docvalue.Value) (*Node, error) {
	nameDoc, err := need(inner, "", "Name")
	if err != nil {
		return nil, err
	}
	typeDoc, err := need(inner, "", "Type")
	if err != nil {
		return nil, err
	}
	return NewNode().Set("name", carry(nameDoc)).Set("type", carry(typeDoc)), nil
}

func (a *AST) propKind(kind string, prop *docvalue.Value) (*Node, error) {
	return a.applyProp(baseKind(kind), prop)
}

func (a *AST) propInst(doc *docvalue.Value, inst, kind string) (*Node, error) {
	prop, err := need(doc, inst, "Variable")
	if err != nil {
		return nil, err
	}
	return a.applyProp(baseInst(inst, kind), prop)
}

// decodeConstNum decodes a numeric constant, keeping its display form.
func (a *AST) decodeConstNum(doc *docvalue.Value, inst, kind string) (*Node, error) {
	value, err := need(doc, inst, "Value")
	if err != nil {
		return nil, err
	}
	return constNode(inst, kind, numText(value)), nil
}

// decodeConstText decodes a textual constant.
func (a *AST) decodeConstText(doc *docvalue.Value, inst, kind string) (*Node, error) {
	value, err := need(doc, inst, "Value")
	if err != nil {
		return nil, err
	}
	return constNode(inst, kind, carry(value)), nil
}

// decodeConstStruct carries a struct constant payload as-is.
func (a *AST) decodeConstStruct(doc *docvalue.Value, inst, kind string) (*Node, error) {
	value, err := need(doc, inst, "Value")
	if err != nil {
		return nil, err
	}
	return constNode(inst, kind, value), nil
}

// decodeLet decodes a variable assignment.
func (a *AST) decodeLet(doc *docvalue.Value, inst, kind string) (*Node, error) {
	varDoc, err := need(doc, inst, "Variable")
	if err != nil {
		return nil, err
	}
	exprDoc, err := need(doc, inst, "Expression")
	if err != nil {
		return nil, err
	}
	variable, err := a.decodeExpr(varDoc)
	if err != nil {
		return nil, err
	}
	expr, err := a.decodeExpr(exprDoc)
	if err != nil {
		return nil, err
	}
	return baseInst(inst, kind).Set("var", variable).Set("expr", expr), nil
}

// decodeFunc decodes a function invocation: a callee reference plus an
// ordered parameter list.
func (a *AST) decodeFunc(doc *docvalue.Value, inst, kind, funcKey, paramsKey string) (*Node, error) {
	funcDoc, err := need(doc, inst, funcKey)
	if err != nil {
		return nil, err
	}
	paramsDoc, err := need(doc, inst, paramsKey)
	if err != nil {
		return nil, err
	}
	callee, err := a.decodeObjRef(funcDoc)
	if err != nil {
		return nil, err
	}
	params, err := a.decodeList(paramsDoc)
	if err != nil {
		return nil, err
	}
	return baseInst(inst, kind).Set("func", callee).Set("params", params), nil
}

// decodeCtx decodes a context expression. A null or missing RValuePointer is
// rendered as the literal string "null".
func (a *AST) decodeCtx(doc *docvalue.Value, inst, kind string) (*Node, error) {
	objDoc, err := need(doc, inst, "ObjectExpression")
	if err != nil {
		return nil, err
	}
	offset, err := need(doc, inst, "Offset")
	if err != nil {
		return nil, err
	}
	ctxDoc, err := need(doc, inst, "ContextExpression")
	if err != nil {
		return nil, err
	}
	objExpr, err := a.decodeExpr(objDoc)
	if err != nil {
		return nil, err
	}
	var rvalue any = "null"
	if rv := doc.ObjectGet("RValuePointer"); rv != nil && !rv.IsNull() {
		rvalue, err = a.propKind("rvalue ptr", rv)
		if err != nil {
			return nil, err
		}
	}
	ctxExpr, err := a.decodeExpr(ctxDoc)
	if err != nil {
		return nil, err
	}
	return baseInst(inst, kind).
		Set("obj_expr", objExpr).
		Set("offset", carry(offset)).
		Set("rvalue_ptr", rvalue).
		Set("ctx_expr", ctxExpr), nil
}

// decodeSwitchCase decodes one switch case entry.
func (a *AST) decodeSwitchCase(c *docvalue.Value) (*Node, error) {
	idxDoc, err := need(c, "EX_SwitchValue", "CaseIndexValueTerm")
	if err != nil {
		return nil, err
	}
	nextDoc, err := need(c, "EX_SwitchValue", "NextOffset")
	if err != nil {
		return nil, err
	}
	termDoc, err := need(c, "EX_SwitchValue", "CaseTerm")
	if err != nil {
		return nil, err
	}
	caseIndex, err := a.decodeExpr(idxDoc)
	if err != nil {
		return nil, err
	}
	caseTerm, err := a.decodeExpr(termDoc)
	if err != nil {
		return nil, err
	}
	return NewNode().
		Set("case_index", caseIndex).
		Set("next_offset", carry(nextDoc)).
		Set("case_term", caseTerm), nil
}

// decodeCast decodes a dynamic cast against a class or interface-class
// reference, keyed by which operand is present.
func (a *AST) decodeCast(doc *docvalue.Value, inst, kind, classKey string) (*Node, error) {
	targetDoc, err := need(doc, inst, "Target")
	if err != nil {
		return nil, err
	}
	classDoc, err := need(doc, inst, classKey)
	if err != nil {
		return nil, err
	}
	target, err := a.decodeExpr(targetDoc)
	if err != nil {
		return nil, err
	}
	clazz, err := a.decodeObjRef(classDoc)
	if err != nil {
		return nil, err
	}
	return baseInst(inst, kind).Set("target", target).Set("clazz", clazz), nil
}

// decodeInst decodes one instruction document into an AST node. index is the
// statement index for statement-level nodes and -1 for nested expressions;
// a handful of opcodes use it for their control-flow side effects.
func (a *AST) decodeInst(doc *docvalue.Value, index int) (_ *Node, err error) {
	if doc.Kind() != docvalue.KindObject {
		return nil, NewStructuralError("", doc, "instruction is not a mapping")
	}
	instDoc := doc.ObjectGet("Inst")
	if instDoc == nil {
		return nil, NewStructuralError("", doc, "instruction without opcode tag")
	}
	inst := instDoc.StringValue()
	// Structural errors raised without a tag of their own (object references,
	// property descriptors, untagged operands) are attributed to this opcode.
	defer func() {
		var structural *StructuralError
		if errors.As(err, &structural) && structural.Inst == "" {
			structural.Inst = inst
		}
	}()

	switch inst {
	case "EX_SwitchValue":
		swDoc, err := need(doc, inst, "IndexTerm")
		if err != nil {
			return nil, err
		}
		endGoto, err := need(doc, inst, "EndGotoOffset")
		if err != nil {
			return nil, err
		}
		casesDoc, err := need(doc, inst, "Cases")
		if err != nil {
			return nil, err
		}
		defaultDoc, err := need(doc, inst, "DefaultTerm")
		if err != nil {
			return nil, err
		}
		swIndex, err := a.decodeExpr(swDoc)
		if err != nil {
			return nil, err
		}
		cases := make([]*Node, 0, casesDoc.ArrayLen())
		for _, c := range casesDoc.ArrayElements() {
			cn, err := a.decodeSwitchCase(c)
			if err != nil {
				return nil, err
			}
			cases = append(cases, cn)
		}
		def, err := a.decodeExpr(defaultDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "switch value").
			Set("sw_index", swIndex).
			Set("end_goto", carry(endGoto)).
			Set("cases", cases).
			Set("default", def), nil

	case "EX_Context":
		return a.decodeCtx(doc, inst, "ctx")
	case "EX_ClassContext":
		return a.decodeCtx(doc, inst, "class ctx")
	case "EX_InterfaceContext":
		value, err := need(doc, inst, "InterfaceValue")
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "intf ctx").Set("intf_value", carry(value)), nil

	case "EX_ByteConst":
		return a.decodeConstNum(doc, inst, "byte")
	case "EX_IntConst":
		return a.decodeConstNum(doc, inst, "int")
	case "EX_Int64Const":
		return a.decodeConstNum(doc, inst, "int64")
	case "EX_SkipOffsetConst":
		return a.decodeConstNum(doc, inst, "skip offset")
	case "EX_FloatConst":
		return a.decodeConstNum(doc, inst, "float")
	case "EX_DoubleConst":
		return a.decodeConstNum(doc, inst, "double")

	case "EX_StringConst":
		return a.decodeConstText(doc, inst, "str")
	case "EX_TextConst":
		return a.decodeConstText(doc, inst, "text")
	case "EX_NameConst":
		return a.decodeConstText(doc, inst, "name")

	case "EX_VectorConst":
		return a.decodeConstStruct(doc, inst, "const vec")
	case "EX_RotationConst":
		return a.decodeConstStruct(doc, inst, "const rot")
	case "EX_TransformConst":
		return a.decodeConstStruct(doc, inst, "const trans")

	case "EX_SoftObjectConst":
		valueDoc, err := need(doc, inst, "Value")
		if err != nil {
			return nil, err
		}
		value, err := a.decodeExpr(valueDoc)
		if err != nil {
			return nil, err
		}
		return constNode(inst, "soft obj", value), nil
	case "EX_ObjectConst":
		valueDoc, err := need(doc, inst, "Value")
		if err != nil {
			return nil, err
		}
		ref, err := a.decodeObjRef(valueDoc)
		if err != nil {
			return nil, err
		}
		return constNode(inst, "obj", ref), nil
	case "EX_ArrayConst":
		propDoc, err := need(doc, inst, "InnerProperty")
		if err != nil {
			return nil, err
		}
		valuesDoc, err := need(doc, inst, "Values")
		if err != nil {
			return nil, err
		}
		inner, err := a.propKind("inner prop", propDoc)
		if err != nil {
			return nil, err
		}
		values, err := a.decodeList(valuesDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "arr const").Set("inner_prop", inner).Set("values", values), nil
	case "EX_BitFieldConst":
		propDoc, err := need(doc, inst, "InnerProperty")
		if err != nil {
			return nil, err
		}
		constDoc, err := need(doc, inst, "ConstValue")
		if err != nil {
			return nil, err
		}
		inner, err := a.propKind("inner prop", propDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "bitfld const").Set("inner_prop", inner).Set("const_value", carry(constDoc)), nil

	case "EX_IntZero":
		return constNode(inst, "int", "0"), nil
	case "EX_IntOne":
		return constNode(inst, "int", "1"), nil
	case "EX_True":
		return constNode(inst, "bool", "true"), nil
	case "EX_False":
		return constNode(inst, "bool", "false"), nil
	case "EX_Self":
		return constNode(inst, "self", "<Self>"), nil
	case "EX_NoObject":
		return constNode(inst, "no obj", "<No Obj>"), nil
	case "EX_NoInterface":
		return constNode(inst, "no intf", "<No Intf>"), nil
	case "EX_Nothing":
		return baseInst(inst, "void"), nil

	case "EX_StructConst":
		return a.decodeFunc(doc, inst, "struct const", "Struct", "Properties")

	case "EX_CallMath":
		return a.decodeFunc(doc, inst, "call math", "Function", "Parameters")
	case "EX_FinalFunction":
		return a.decodeFunc(doc, inst, "final func", "Function", "Parameters")
	case "EX_LocalFinalFunction":
		return a.decodeFunc(doc, inst, "local final func", "Function", "Parameters")
	case "EX_VirtualFunction":
		return a.decodeFunc(doc, inst, "virt func", "Function", "Parameters")
	case "EX_LocalVirtualFunction":
		return a.decodeFunc(doc, inst, "local virt func", "Function", "Parameters")
	case "EX_CallMulticastDelegate":
		node, err := a.decodeFunc(doc, inst, "call multi dele", "FunctionName", "Parameters")
		if err != nil {
			return nil, err
		}
		delegateDoc, err := need(doc, inst, "Delegate")
		if err != nil {
			return nil, err
		}
		delegate, err := a.decodeExpr(delegateDoc)
		if err != nil {
			return nil, err
		}
		return node.Set("delegate", delegate), nil

	case "EX_Let":
		return a.decodeLet(doc, inst, "let")
	case "EX_LetBool":
		return a.decodeLet(doc, inst, "let bool")
	case "EX_LetObj":
		return a.decodeLet(doc, inst, "let obj")
	case "EX_LetWeakObjPtr":
		return a.decodeLet(doc, inst, "let weak obj ptr")
	case "EX_LetValueOnPersistentFrame":
		destDoc, err := need(doc, inst, "DestinationProperty")
		if err != nil {
			return nil, err
		}
		exprDoc, err := need(doc, inst, "AssignmentExpression")
		if err != nil {
			return nil, err
		}
		dest, err := a.propKind("val on p.f.", destDoc)
		if err != nil {
			return nil, err
		}
		expr, err := a.decodeExpr(exprDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "let val on p.f.").Set("var", dest).Set("expr", expr), nil

	case "EX_StructMemberContext":
		propDoc, err := need(doc, inst, "Property")
		if err != nil {
			return nil, err
		}
		exprDoc, err := need(doc, inst, "StructExpression")
		if err != nil {
			return nil, err
		}
		member, err := a.propKind("struct mmb", propDoc)
		if err != nil {
			return nil, err
		}
		expr, err := a.decodeExpr(exprDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "struct mmb ctx").Set("var", member).Set("expr", expr), nil

	case "EX_SetArray":
		propDoc, err := need(doc, inst, "AssigningProperty")
		if err != nil {
			return nil, err
		}
		elemsDoc, err := need(doc, inst, "Elements")
		if err != nil {
			return nil, err
		}
		prop, err := a.decodeExpr(propDoc)
		if err != nil {
			return nil, err
		}
		elements, err := a.decodeList(elemsDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "set array").Set("prop", prop).Set("elements", elements), nil

	case "EX_ArrayGetByRef":
		varDoc, err := need(doc, inst, "ArrayVariable")
		if err != nil {
			return nil, err
		}
		idxDoc, err := need(doc, inst, "ArrayIndex")
		if err != nil {
			return nil, err
		}
		arrayVar, err := a.decodeExpr(varDoc)
		if err != nil {
			return nil, err
		}
		arrayIndex, err := a.decodeExpr(idxDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "array get by ref").Set("array_var", arrayVar).Set("array_index", arrayIndex), nil

	case "EX_Cast":
		targetDoc, err := need(doc, inst, "Target")
		if err != nil {
			return nil, err
		}
		convDoc, err := need(doc, inst, "ConversionType")
		if err != nil {
			return nil, err
		}
		target, err := a.decodeExpr(targetDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "cast").Set("target", target).Set("conv_type", carry(convDoc)), nil

	case "EX_DynamicCast":
		if doc.ObjectHas("Class") {
			return a.decodeCast(doc, inst, "dyn cast class", "Class")
		}
		if doc.ObjectHas("InterfaceClass") {
			return a.decodeCast(doc, inst, "dyn cast intf class", "InterfaceClass")
		}
		return nil, NewStructuralError(inst, doc, "missing operand \"Class\" or \"InterfaceClass\"")
	case "EX_ObjToInterfaceCast":
		return a.decodeCast(doc, inst, "obj to intf cast", "InterfaceClass")

	case "EX_InstanceVariable":
		return a.propInst(doc, inst, "instance var")
	case "EX_LocalVariable":
		return a.propInst(doc, inst, "local var")
	case "EX_LocalOutVariable":
		return a.propInst(doc, inst, "local out var")
	case "EX_DefaultVariable":
		return a.propInst(doc, inst, "def var")

	case "EX_ComputedJump":
		exprDoc, err := need(doc, inst, "OffsetExpression")
		if err != nil {
			return nil, err
		}
		expr, err := a.decodeExpr(exprDoc)
		if err != nil {
			return nil, err
		}
		if a.ComputedJumpIndex >= 0 {
			return nil, NewInvariantError(index, "duplicate computed jump (first at %d)", a.ComputedJumpIndex)
		}
		// A computed jump marks the function as an ubergraph. Its dispatch
		// prologue starts at index 0, which therefore is not an entrypoint.
		a.IsUbergraph = true
		a.ComputedJumpIndex = index
		a.NotEntrypoints[0] = true
		return baseInst(inst, "computed jump").Set("expr", expr).Set(AttrNoFlow, true), nil

	case "EX_Return":
		exprDoc, err := need(doc, inst, "Expression")
		if err != nil {
			return nil, err
		}
		expr, err := a.decodeExpr(exprDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "return").Set("expr", expr), nil

	case "EX_BindDelegate":
		funcDoc, err := need(doc, inst, "FunctionName")
		if err != nil {
			return nil, err
		}
		delegateDoc, err := need(doc, inst, "Delegate")
		if err != nil {
			return nil, err
		}
		termDoc, err := need(doc, inst, "ObjectTerm")
		if err != nil {
			return nil, err
		}
		callee, err := a.decodeObjRef(funcDoc)
		if err != nil {
			return nil, err
		}
		delegate, err := a.decodeExpr(delegateDoc)
		if err != nil {
			return nil, err
		}
		objTerm, err := a.decodeExpr(termDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "bind dele").
			Set("func", callee).
			Set("delegate", delegate).
			Set("obj_term", objTerm), nil

	case "EX_AddMulticastDelegate", "EX_RemoveMulticastDelegate":
		kind := "add multi dele"
		if inst == "EX_RemoveMulticastDelegate" {
			kind = "remove multi dele"
		}
		multiDoc, err := need(doc, inst, "MulticastDelegate")
		if err != nil {
			return nil, err
		}
		delegateDoc, err := need(doc, inst, "Delegate")
		if err != nil {
			return nil, err
		}
		multi, err := a.decodeExpr(multiDoc)
		if err != nil {
			return nil, err
		}
		delegate, err := a.decodeExpr(delegateDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, kind).Set("multi_dele", multi).Set("delegate", delegate), nil

	case "EX_ClearMulticastDelegate":
		clearDoc, err := need(doc, inst, "DelegateToClear")
		if err != nil {
			return nil, err
		}
		delegate, err := a.decodeExpr(clearDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "clear multi dele").Set("delegate", delegate), nil

	case "EX_Jump":
		offDoc, err := need(doc, inst, "CodeOffset")
		if err != nil {
			return nil, err
		}
		pathDoc, err := need(doc, inst, "ObjectPath")
		if err != nil {
			return nil, err
		}
		offset := offDoc.Int()
		a.addLink(index, offset)
		return baseInst(inst, "jump").
			Set("jmp_offset", strconv.Itoa(offset)).
			Set("objpath", shortPath(pathDoc.StringValue())).
			Set(AttrNoFlow, true), nil

	case "EX_JumpIfNot":
		offDoc, err := need(doc, inst, "CodeOffset")
		if err != nil {
			return nil, err
		}
		pathDoc, err := need(doc, inst, "ObjectPath")
		if err != nil {
			return nil, err
		}
		predDoc, err := need(doc, inst, "BooleanExpression")
		if err != nil {
			return nil, err
		}
		predicate, err := a.decodeExpr(predDoc)
		if err != nil {
			return nil, err
		}
		offset := offDoc.Int()
		a.addLink(index, offset)
		return baseInst(inst, "jump if not").
			Set("jmp_offset", strconv.Itoa(offset)).
			Set("objpath", shortPath(pathDoc.StringValue())).
			Set("predicate", predicate), nil

	case "EX_PushExecutionFlow":
		addrDoc, err := need(doc, inst, "PushingAddress")
		if err != nil {
			return nil, err
		}
		pathDoc, err := need(doc, inst, "ObjectPath")
		if err != nil {
			return nil, err
		}
		addr := addrDoc.Int()
		// The pushed address becomes a pop destination, not an entrypoint.
		a.NotEntrypoints[addr] = true
		return baseInst(inst, "push exec").
			Set("push_addr", strconv.Itoa(addr)).
			Set("objpath", shortPath(pathDoc.StringValue())), nil

	case "EX_PopExecutionFlow":
		return baseInst(inst, "pop exec").
			Set("pop_addr", nil).
			Set(AttrNoFlow, true), nil

	case "EX_PopExecutionFlowIfNot":
		predDoc, err := need(doc, inst, "BooleanExpression")
		if err != nil {
			return nil, err
		}
		predicate, err := a.decodeExpr(predDoc)
		if err != nil {
			return nil, err
		}
		return baseInst(inst, "pop exec if not").
			Set("pop_addr", nil).
			Set("predicate", predicate), nil

	case "EX_EndOfScript":
		return baseInst(inst, "script end").Set(AttrNoFlow, true), nil

	default:
		return nil, NewStructuralError(inst, doc, "unrecognized opcode")
	}
}
