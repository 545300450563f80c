package internal

import (
	"fmt"
	"strings"
)

// printTree renders the parsed statements as s-expressions, one per line
func (state *interpreterState) printTree() string {
	out := ""
	for _, stmt := range state.stmts {
		s, _ := stmt.accept(stringVisitor{})
		out += s.(string) + "\n"
	}
	return out
}

// printTokens renders the scanned tokens, one per line
func (state *interpreterState) printTokens() string {
	var b strings.Builder
	for i := range state.tokens {
		b.WriteString(state.tokens[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}

type stringVisitor struct{}

func (v stringVisitor) visitExprStmt(stmt *exprStmt) (R, error) {
	return stmt.expression.accept(v)
}

func (v stringVisitor) visitPrintStmt(stmt *printStmt) (R, error) {
	return fmt.Sprintf("(print %v)", v.str(stmt.expression)), nil
}

func (v stringVisitor) visitVarStmt(stmt *varStmt) (R, error) {
	if stmt.initializer == nil {
		return fmt.Sprintf("(var %s)", stmt.name.lexeme), nil
	}
	return fmt.Sprintf("(var %s %v)", stmt.name.lexeme, v.str(stmt.initializer)), nil
}

func (v stringVisitor) visitBlockStmt(stmt *blockStmt) (R, error) {
	return "(scope" + v.body(stmt.stmts) + ")", nil
}

func (v stringVisitor) visitIfStmt(stmt *ifStmt) (R, error) {
	out := fmt.Sprintf("(if (then %v %v)", v.str(stmt.condition), v.strStmt(stmt.thenBranch))
	if stmt.elseBranch != nil {
		out += fmt.Sprintf(" (else %v)", v.strStmt(stmt.elseBranch))
	}
	return out + ")", nil
}

func (v stringVisitor) visitWhileStmt(stmt *whileStmt) (R, error) {
	return fmt.Sprintf("(while %v %v)", v.str(stmt.condition), v.strStmt(stmt.body)), nil
}

func (v stringVisitor) visitFnStmt(stmt *fnStmt) (R, error) {
	out := "(fn " + stmt.name.lexeme + " ("
	for i, param := range stmt.params {
		out += param.lexeme
		if i < len(stmt.params)-1 {
			out += ", "
		}
	}
	out += ")"
	return out + v.body(stmt.body) + ")", nil
}

func (v stringVisitor) visitClassStmt(stmt *classStmt) (R, error) {
	out := "(class " + stmt.name.lexeme
	if stmt.superclass != nil {
		out += " < " + stmt.superclass.name.lexeme
	}
	for _, method := range stmt.methods {
		out += " " + v.strStmt(method)
	}
	return out + ")", nil
}

func (v stringVisitor) visitReturnStmt(stmt *returnStmt) (R, error) {
	if stmt.value == nil {
		return "(return)", nil
	}
	return fmt.Sprintf("(return %v)", v.str(stmt.value)), nil
}

func (v stringVisitor) visitAssignExpr(expr *assignExpr) (R, error) {
	return fmt.Sprintf("(set %s %v)", expr.name.lexeme, v.str(expr.value)), nil
}

func (v stringVisitor) visitBinaryExpr(expr *binaryExpr) (R, error) {
	return fmt.Sprintf("(%s %v %v)", expr.operator.lexeme, v.str(expr.left), v.str(expr.right)), nil
}

func (v stringVisitor) visitCallExpr(expr *callExpr) (R, error) {
	out := "(call " + v.str(expr.callee)
	for _, arg := range expr.arguments {
		out += " " + v.str(arg)
	}
	return out + ")", nil
}

func (v stringVisitor) visitGetExpr(expr *getExpr) (R, error) {
	return fmt.Sprintf("(get %v %s)", v.str(expr.object), expr.name.lexeme), nil
}

func (v stringVisitor) visitSetExpr(expr *setExpr) (R, error) {
	return fmt.Sprintf("(set (get %v %s) %v)", v.str(expr.object), expr.name.lexeme, v.str(expr.value)), nil
}

func (v stringVisitor) visitSuperExpr(expr *superExpr) (R, error) {
	return "(super " + expr.method.lexeme + ")", nil
}

func (v stringVisitor) visitGroupingExpr(expr *groupingExpr) (R, error) {
	return expr.expression.accept(v)
}

func (v stringVisitor) visitLiteralExpr(expr *literalExpr) (R, error) {
	stringLiteral, isString := expr.value.(string)
	if isString {
		return "\"" + stringLiteral + "\"", nil
	}
	return stringify(expr.value), nil
}

func (v stringVisitor) visitLogicalExpr(expr *logicalExpr) (R, error) {
	return fmt.Sprintf("(%s %v %v)", expr.operator.lexeme, v.str(expr.left), v.str(expr.right)), nil
}

func (v stringVisitor) visitThisExpr(expr *thisExpr) (R, error) {
	return "this", nil
}

func (v stringVisitor) visitUnaryExpr(expr *unaryExpr) (R, error) {
	return fmt.Sprintf("(%s %v)", expr.operator.lexeme, v.str(expr.right)), nil
}

func (v stringVisitor) visitVariableExpr(expr *variableExpr) (R, error) {
	return expr.name.lexeme, nil
}

func (v stringVisitor) str(e expr) string {
	s, _ := e.accept(v)
	return s.(string)
}

func (v stringVisitor) strStmt(st stmt) string {
	s, _ := st.accept(v)
	return s.(string)
}

func (v stringVisitor) body(stmts []stmt) string {
	out := ""
	for _, st := range stmts {
		out += " " + v.strStmt(st)
	}
	return out
}
