package internal

import "fmt"

type class struct {
	name       string
	superclass *class
	methods    map[string]*function
}

func (c *class) findMethod(name string) *function {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *class) arity() int {
	if initializer := c.findMethod("init"); initializer != nil {
		return initializer.arity()
	}
	return 0
}

// call constructs an instance. The instance is the result whatever init
// evaluates to.
func (c *class) call(exec *exec, arguments []interface{}) (interface{}, error) {
	obj := newInstance(c)
	if initializer := c.findMethod("init"); initializer != nil {
		bound := &boundMethod{receiver: obj, method: initializer}
		if _, err := bound.call(exec, arguments); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (c *class) String() string {
	return fmt.Sprintf("<class %s>", c.name)
}
