package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) (interface{}, error)
}

// returnValue is the signal a return statement hands back up through the
// enclosing blocks until the function call consumes it
type returnValue struct {
	value interface{}
}

type function struct {
	declaration   *fnStmt
	closure       *env
	isInitializer bool
}

func (f *function) arity() int {
	return len(f.declaration.params)
}

func (f *function) call(exec *exec, arguments []interface{}) (interface{}, error) {
	environment := newEnv(f.closure)
	for i, param := range f.declaration.params {
		environment.define(param.lexeme, arguments[i])
	}

	result, err := exec.executeBlock(f.declaration.body, environment)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.getAt(0, "this"), nil
	}
	if ret, isReturn := result.(*returnValue); isReturn {
		return ret.value, nil
	}
	return nil, nil
}

func (f *function) bind(object *instance) *function {
	environment := newEnv(f.closure)
	environment.define("this", object)
	return &function{
		declaration:   f.declaration,
		closure:       environment,
		isInitializer: f.isInitializer,
	}
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}

// boundMethod pairs a method with the instance it was read from
type boundMethod struct {
	receiver *instance
	method   *function
}

func (b *boundMethod) arity() int {
	return b.method.arity()
}

func (b *boundMethod) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return b.method.bind(b.receiver).call(exec, arguments)
}

func (b *boundMethod) String() string {
	return b.method.String()
}

type nativeFn struct {
	name       string
	arityValue int
	callFn     func(exec *exec, arguments []interface{}) (interface{}, error)
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return n.callFn(exec, arguments)
}

func (n *nativeFn) String() string {
	return fmt.Sprintf("<native fn %s>", n.name)
}
