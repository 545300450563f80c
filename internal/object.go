package internal

import "fmt"

type instance struct {
	class  *class
	fields map[string]interface{}
}

func newInstance(c *class) *instance {
	return &instance{
		class:  c,
		fields: make(map[string]interface{}),
	}
}

func (o *instance) get(tk *token) (interface{}, error) {
	if val, ok := o.fields[tk.lexeme]; ok {
		return val, nil
	}
	if method := o.class.findMethod(tk.lexeme); method != nil {
		return &boundMethod{receiver: o, method: method}, nil
	}
	return nil, undefinedProp(tk)
}

// set always writes the instance's own fields
func (o *instance) set(name *token, value interface{}) {
	o.fields[name.lexeme] = value
}

func (o *instance) String() string {
	return fmt.Sprintf("<instance %s>", o.class.name)
}

func undefinedProp(name *token) error {
	return newDiagnostic(RuntimeError, withDetail(errUndefinedProp, "%s `%s`", errUndefinedProp, name.lexeme), name)
}
