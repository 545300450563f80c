package internal

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// resolver computes the scope distance of every local variable reference.
// Errors are recorded in state and resolution carries on so all of them get
// reported together.
type resolver struct {
	scopes []map[string]bool
	locals map[expr]int
	// locals resolved outside any function body, dead once the unit has run
	unitLocals []expr

	currentFunction functionType
	currentClass    classType

	state *interpreterState
}

func newResolver(state *interpreterState) *resolver {
	return &resolver{
		locals: make(map[expr]int),
		state:  state,
	}
}

func (r *resolver) resolve(stmts []stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s stmt) {
	s.accept(r)
}

func (r *resolver) resolveExpr(e expr) {
	e.accept(r)
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peekScope() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peekScope()
	if _, ok := scope[name.lexeme]; ok {
		r.error(withDetail(errAlreadyDeclared, "Already a variable `%s` in this scope.", name.lexeme), name)
	}
	scope[name.lexeme] = false
}

func (r *resolver) define(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[name.lexeme] = true
}

func (r *resolver) resolveLocal(e expr, name *token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.lexeme]; ok {
			r.locals[e] = len(r.scopes) - 1 - i
			if r.currentFunction == functionNone {
				r.unitLocals = append(r.unitLocals, e)
			}
			return
		}
	}
}

func (r *resolver) resolveFunction(fn *fnStmt, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	for _, param := range fn.params {
		r.declare(param)
		r.define(param)
	}
	r.resolve(fn.body)
	r.endScope()
}

func (r *resolver) error(err error, tk *token) {
	r.state.setError(ResolveError, err, tk)
}

func (r *resolver) visitBlockStmt(stmt *blockStmt) (R, error) {
	r.beginScope()
	r.resolve(stmt.stmts)
	r.endScope()
	return nil, nil
}

func (r *resolver) visitClassStmt(stmt *classStmt) (R, error) {
	enclosing := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosing }()

	r.declare(stmt.name)
	r.define(stmt.name)

	if stmt.superclass != nil {
		if stmt.superclass.name.lexeme == stmt.name.lexeme {
			r.error(errInheritFromSelf, stmt.superclass.name)
		}
		r.currentClass = classSubclass
		r.resolveExpr(stmt.superclass)

		r.beginScope()
		r.peekScope()["super"] = true
	}

	r.beginScope()
	r.peekScope()["this"] = true

	for _, method := range stmt.methods {
		kind := functionMethod
		if method.name.lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if stmt.superclass != nil {
		r.endScope()
	}
	return nil, nil
}

func (r *resolver) visitExprStmt(stmt *exprStmt) (R, error) {
	r.resolveExpr(stmt.expression)
	return nil, nil
}

func (r *resolver) visitFnStmt(stmt *fnStmt) (R, error) {
	r.declare(stmt.name)
	r.define(stmt.name)
	r.resolveFunction(stmt, functionPlain)
	return nil, nil
}

func (r *resolver) visitIfStmt(stmt *ifStmt) (R, error) {
	r.resolveExpr(stmt.condition)
	r.resolveStmt(stmt.thenBranch)
	if stmt.elseBranch != nil {
		r.resolveStmt(stmt.elseBranch)
	}
	return nil, nil
}

func (r *resolver) visitPrintStmt(stmt *printStmt) (R, error) {
	r.resolveExpr(stmt.expression)
	return nil, nil
}

func (r *resolver) visitReturnStmt(stmt *returnStmt) (R, error) {
	switch r.currentFunction {
	case functionNone:
		r.error(errTopLevelReturn, stmt.keyword)
	case functionInitializer:
		r.error(errInitializerReturn, stmt.keyword)
	}
	if stmt.value != nil {
		r.resolveExpr(stmt.value)
	}
	return nil, nil
}

func (r *resolver) visitVarStmt(stmt *varStmt) (R, error) {
	r.declare(stmt.name)
	if stmt.initializer != nil {
		r.resolveExpr(stmt.initializer)
	}
	r.define(stmt.name)
	return nil, nil
}

func (r *resolver) visitWhileStmt(stmt *whileStmt) (R, error) {
	r.resolveExpr(stmt.condition)
	r.resolveStmt(stmt.body)
	return nil, nil
}

func (r *resolver) visitAssignExpr(expr *assignExpr) (R, error) {
	r.resolveExpr(expr.value)
	r.resolveLocal(expr, expr.name)
	return nil, nil
}

func (r *resolver) visitBinaryExpr(expr *binaryExpr) (R, error) {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil, nil
}

func (r *resolver) visitCallExpr(expr *callExpr) (R, error) {
	r.resolveExpr(expr.callee)
	for _, arg := range expr.arguments {
		r.resolveExpr(arg)
	}
	return nil, nil
}

func (r *resolver) visitGetExpr(expr *getExpr) (R, error) {
	r.resolveExpr(expr.object)
	return nil, nil
}

func (r *resolver) visitSetExpr(expr *setExpr) (R, error) {
	r.resolveExpr(expr.value)
	r.resolveExpr(expr.object)
	return nil, nil
}

func (r *resolver) visitSuperExpr(expr *superExpr) (R, error) {
	switch r.currentClass {
	case classNone:
		r.error(errSuperOutsideClass, expr.keyword)
	case classPlain:
		r.error(errSuperWithoutSuperclass, expr.keyword)
	default:
		r.resolveLocal(expr, expr.keyword)
	}
	return nil, nil
}

func (r *resolver) visitGroupingExpr(expr *groupingExpr) (R, error) {
	r.resolveExpr(expr.expression)
	return nil, nil
}

func (r *resolver) visitLiteralExpr(expr *literalExpr) (R, error) {
	return nil, nil
}

func (r *resolver) visitLogicalExpr(expr *logicalExpr) (R, error) {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil, nil
}

func (r *resolver) visitThisExpr(expr *thisExpr) (R, error) {
	if r.currentClass == classNone {
		r.error(errThisOutsideClass, expr.keyword)
		return nil, nil
	}
	r.resolveLocal(expr, expr.keyword)
	return nil, nil
}

func (r *resolver) visitUnaryExpr(expr *unaryExpr) (R, error) {
	r.resolveExpr(expr.right)
	return nil, nil
}

func (r *resolver) visitVariableExpr(expr *variableExpr) (R, error) {
	if len(r.scopes) > 0 {
		if defined, ok := r.peekScope()[expr.name.lexeme]; ok && !defined {
			r.error(errReadOwnInitializer, expr.name)
		}
	}
	r.resolveLocal(expr, expr.name)
	return nil, nil
}
