package internal

type exec struct {
	globals *env
	env     *env
	locals  map[expr]int

	printer IPrinter
}

func newExec(globals *env, printer IPrinter) *exec {
	return &exec{
		globals: globals,
		env:     globals,
		locals:  make(map[expr]int),
		printer: printer,
	}
}

// interpret runs the statements of the current unit. A runtime error stops
// the unit and is returned as a *Diagnostic.
func (e *exec) interpret(stmts []stmt) error {
	for _, s := range stmts {
		if _, err := s.accept(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *exec) runtimeErr(err error, tk *token) error {
	return newDiagnostic(RuntimeError, err, tk)
}

func (e *exec) visitExprStmt(stmt *exprStmt) (R, error) {
	_, err := stmt.expression.accept(e)
	return nil, err
}

func (e *exec) visitPrintStmt(stmt *printStmt) (R, error) {
	value, err := stmt.expression.accept(e)
	if err != nil {
		return nil, err
	}
	e.printer.Println(stringify(value))
	return nil, nil
}

func (e *exec) visitVarStmt(stmt *varStmt) (R, error) {
	var val interface{}
	if stmt.initializer != nil {
		var err error
		if val, err = stmt.initializer.accept(e); err != nil {
			return nil, err
		}
	}
	e.env.define(stmt.name.lexeme, val)
	return nil, nil
}

func (e *exec) visitBlockStmt(stmt *blockStmt) (R, error) {
	return e.executeBlock(stmt.stmts, newEnv(e.env))
}

// executeBlock runs stmts inside env. A *returnValue result is handed back
// to the caller untouched.
func (e *exec) executeBlock(stmts []stmt, env *env) (R, error) {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		result, err := s.accept(e)
		if err != nil || result != nil {
			return result, err
		}
	}
	return nil, nil
}

func (e *exec) visitWhileStmt(stmt *whileStmt) (R, error) {
	for {
		cond, err := stmt.condition.accept(e)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return nil, nil
		}
		result, err := stmt.body.accept(e)
		if err != nil || result != nil {
			return result, err
		}
	}
}

func (e *exec) visitReturnStmt(stmt *returnStmt) (R, error) {
	var value interface{}
	if stmt.value != nil {
		var err error
		if value, err = stmt.value.accept(e); err != nil {
			return nil, err
		}
	}
	return &returnValue{value: value}, nil
}

func (e *exec) visitIfStmt(stmt *ifStmt) (R, error) {
	cond, err := stmt.condition.accept(e)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return stmt.thenBranch.accept(e)
	}
	if stmt.elseBranch != nil {
		return stmt.elseBranch.accept(e)
	}
	return nil, nil
}

func (e *exec) visitFnStmt(stmt *fnStmt) (R, error) {
	e.env.define(stmt.name.lexeme, &function{
		declaration:   stmt,
		closure:       e.env,
		isInitializer: false,
	})
	return nil, nil
}

func (e *exec) visitClassStmt(stmt *classStmt) (R, error) {
	var superclass *class
	if stmt.superclass != nil {
		value, err := stmt.superclass.accept(e)
		if err != nil {
			return nil, err
		}
		sc, isClass := value.(*class)
		if !isClass {
			return nil, e.runtimeErr(errSuperclassNotClass, stmt.superclass.name)
		}
		superclass = sc
	}

	e.env.define(stmt.name.lexeme, nil)

	closure := e.env
	if superclass != nil {
		closure = newEnv(e.env)
		closure.define("super", superclass)
	}

	methods := make(map[string]*function, len(stmt.methods))
	for _, method := range stmt.methods {
		methods[method.name.lexeme] = &function{
			declaration:   method,
			closure:       closure,
			isInitializer: method.name.lexeme == "init",
		}
	}

	cls := &class{
		name:       stmt.name.lexeme,
		superclass: superclass,
		methods:    methods,
	}

	if err := e.env.assign(stmt.name, cls); err != nil {
		return nil, err
	}
	return nil, nil
}

func (e *exec) visitAssignExpr(expr *assignExpr) (R, error) {
	val, err := expr.value.accept(e)
	if err != nil {
		return nil, err
	}
	if distance, ok := e.locals[expr]; ok {
		e.env.assignAt(distance, expr.name.lexeme, val)
		return val, nil
	}
	if err := e.globals.assign(expr.name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (e *exec) visitBinaryExpr(expr *binaryExpr) (R, error) {
	left, err := expr.left.accept(e)
	if err != nil {
		return nil, err
	}
	right, err := expr.right.accept(e)
	if err != nil {
		return nil, err
	}

	switch expr.operator.token {
	case tkEqualEqual:
		return isEqual(left, right), nil
	case tkBangEqual:
		return !isEqual(left, right), nil
	case tkPlus:
		return e.add(expr.operator, left, right)
	}

	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return nil, e.operandsErr(expr.operator, "numbers", left, right)
	}

	switch expr.operator.token {
	case tkMinus:
		return l - r, nil
	case tkStar:
		return l * r, nil
	case tkSlash:
		return l / r, nil
	case tkGreater:
		return l > r, nil
	case tkGreaterEqual:
		return l >= r, nil
	case tkLess:
		return l < r, nil
	case tkLessEqual:
		return l <= r, nil
	}
	return nil, e.operandsErr(expr.operator, "numbers", left, right)
}

// add sums numbers and concatenates when either side is a string and the
// other a string or number
func (e *exec) add(op *token, left, right interface{}) (R, error) {
	if l, ok := left.(float64); ok {
		if r, ok := right.(float64); ok {
			return l + r, nil
		}
	}
	_, lstr := left.(string)
	_, rstr := right.(string)
	if (lstr || rstr) && concatenable(left) && concatenable(right) {
		return stringify(left) + stringify(right), nil
	}
	return nil, e.operandsErr(op, "two numbers or a string", left, right)
}

func concatenable(value interface{}) bool {
	switch value.(type) {
	case string, float64:
		return true
	}
	return false
}

func (e *exec) operandsErr(op *token, expected string, left, right interface{}) error {
	return e.runtimeErr(withDetail(
		errOperandTypes,
		"Operator `%s` expects %s, found %s and %s",
		op.lexeme, expected, typeName(left), typeName(right),
	), op)
}

func (e *exec) visitCallExpr(expr *callExpr) (R, error) {
	callee, err := expr.callee.accept(e)
	if err != nil {
		return nil, err
	}

	arguments := make([]interface{}, len(expr.arguments))
	for i, arg := range expr.arguments {
		if arguments[i], err = arg.accept(e); err != nil {
			return nil, err
		}
	}

	fn, isCallable := callee.(callable)
	if !isCallable {
		return nil, e.runtimeErr(errOnlyFunction, expr.paren)
	}

	if len(arguments) != fn.arity() {
		return nil, e.runtimeErr(withDetail(
			errInvalidNumberArguments,
			"Expected %d arguments. Found %d arguments",
			fn.arity(), len(arguments),
		), expr.paren)
	}

	return fn.call(e, arguments)
}

func (e *exec) visitGetExpr(expr *getExpr) (R, error) {
	object, err := expr.object.accept(e)
	if err != nil {
		return nil, err
	}
	obj, isInstance := object.(*instance)
	if !isInstance {
		return nil, e.runtimeErr(withDetail(
			errOnlyInstanceProps, "%s, found %s", errOnlyInstanceProps, typeName(object),
		), expr.name)
	}
	return obj.get(expr.name)
}

func (e *exec) visitSetExpr(expr *setExpr) (R, error) {
	object, err := expr.object.accept(e)
	if err != nil {
		return nil, err
	}
	obj, isInstance := object.(*instance)
	if !isInstance {
		return nil, e.runtimeErr(withDetail(
			errOnlyInstanceFields, "%s, found %s", errOnlyInstanceFields, typeName(object),
		), expr.name)
	}
	value, err := expr.value.accept(e)
	if err != nil {
		return nil, err
	}
	obj.set(expr.name, value)
	return value, nil
}

func (e *exec) visitSuperExpr(expr *superExpr) (R, error) {
	distance := e.locals[expr]
	superclass := e.env.getAt(distance, "super").(*class)
	object := e.env.getAt(distance-1, "this").(*instance)

	method := superclass.findMethod(expr.method.lexeme)
	if method == nil {
		return nil, undefinedProp(expr.method)
	}
	return &boundMethod{receiver: object, method: method}, nil
}

func (e *exec) visitGroupingExpr(expr *groupingExpr) (R, error) {
	return expr.expression.accept(e)
}

func (e *exec) visitLiteralExpr(expr *literalExpr) (R, error) {
	return expr.value, nil
}

func (e *exec) visitLogicalExpr(expr *logicalExpr) (R, error) {
	left, err := expr.left.accept(e)
	if err != nil {
		return nil, err
	}
	if expr.operator.token == tkOr {
		if truthy(left) {
			return left, nil
		}
	} else if !truthy(left) {
		return left, nil
	}
	return expr.right.accept(e)
}

func (e *exec) visitThisExpr(expr *thisExpr) (R, error) {
	return e.lookUpVariable(expr.keyword, expr)
}

func (e *exec) visitUnaryExpr(expr *unaryExpr) (R, error) {
	value, err := expr.right.accept(e)
	if err != nil {
		return nil, err
	}
	if expr.operator.token == tkBang {
		return !truthy(value), nil
	}
	n, isNumber := value.(float64)
	if !isNumber {
		return nil, e.runtimeErr(withDetail(
			errOperandTypes, "Operator `-` expects a number, found %s", typeName(value),
		), expr.operator)
	}
	return -n, nil
}

func (e *exec) visitVariableExpr(expr *variableExpr) (R, error) {
	return e.lookUpVariable(expr.name, expr)
}

func (e *exec) lookUpVariable(name *token, expr expr) (interface{}, error) {
	if distance, ok := e.locals[expr]; ok {
		return e.env.getAt(distance, name.lexeme), nil
	}
	return e.globals.get(name)
}
